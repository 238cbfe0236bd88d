package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
)

// AnswerGeneral replies from history and records the answer, since no
// handler runs for follow-ups.
func AnswerGeneral(
	ctx context.Context,
	in *GraphState,
	responder contractx.GeneralResponder,
	store statex.Store,
) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	answer, err := responder.Answer(ctx, in.Text, in.ChatID)
	if err != nil {
		return GraphOutput{}, fmt.Errorf("answer general query: %w", err)
	}

	if _, err := store.Append(ctx, in.ChatID, contractx.RoleAssistant, answer, map[string]any{
		"category": contractx.CategoryGeneral.String(),
	}); err != nil {
		return GraphOutput{}, fmt.Errorf("append general answer: %w", err)
	}

	return GraphOutput{Decision: contractx.RouteDecision{
		Category: contractx.CategoryGeneral,
		Response: answer,
	}}, nil
}
