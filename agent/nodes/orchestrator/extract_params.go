package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"golang.org/x/sync/errgroup"
)

// ExtractParams runs both extractors concurrently; they are independent.
func ExtractParams(
	ctx context.Context,
	in *GraphState,
	orderNumber contractx.ParameterExtractor,
	customerName contractx.ParameterExtractor,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	var order, customer *string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := orderNumber.Extract(gctx, in.Text)
		if err != nil {
			return fmt.Errorf("extract order number: %w", err)
		}
		order = v
		return nil
	})
	g.Go(func() error {
		v, err := customerName.Extract(gctx, in.Text)
		if err != nil {
			return fmt.Errorf("extract customer name: %w", err)
		}
		customer = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.Decision = contractx.RouteDecision{
		Category:     in.Category,
		OrderNumber:  order,
		CustomerName: customer,
	}
	return in, nil
}
