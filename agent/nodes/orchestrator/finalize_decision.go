package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

func FinalizeDecision(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Decision.Category.IsRoutable() {
		return GraphOutput{}, fmt.Errorf("%w: %w: %q", contractx.ErrRoutingFailed, contractx.ErrUnknownCategory, in.Decision.Category)
	}
	return GraphOutput{Decision: in.Decision}, nil
}
