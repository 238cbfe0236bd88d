package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
)

func AppendUserMessage(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if _, err := store.Append(ctx, in.ChatID, contractx.RoleUser, in.Text, in.Metadata); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}
	return in, nil
}
