package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

func ClassifyIntent(ctx context.Context, in *GraphState, classifier contractx.IntentClassifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	category, err := classifier.Classify(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrRoutingFailed, err)
	}
	in.Category = category
	return in, nil
}
