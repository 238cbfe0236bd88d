package specialist

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/tool"
)

type registryImpl struct {
	handlers map[contractx.Category]contractx.Handler
}

func (r *registryImpl) Handler(category contractx.Category) (contractx.Handler, bool) {
	h, ok := r.handlers[category]
	return h, ok
}

// NewRegistry wires the default handler for every routable category.
func NewRegistry(orders *tool.OrderTool) (contractx.HandlerRegistry, error) {
	if orders == nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, tool.ErrMissingLookup)
	}

	return NewRegistryFromHandlers(map[contractx.Category]contractx.Handler{
		contractx.CategoryComparison:     NewPlaceholderAgent("Comparison"),
		contractx.CategoryDailySales:     NewPlaceholderAgent("Daily Sales"),
		contractx.CategoryRefund:         NewPlaceholderAgent("Refund"),
		contractx.CategoryHelp:           NewPlaceholderAgent("Help"),
		contractx.CategoryOrderDetails:   NewOrderDetailsAgent(orders),
		contractx.CategoryOrderStatus:    NewOrderStatusAgent(orders),
		contractx.CategoryCustomerOrders: NewCustomerOrdersAgent(orders),
	})
}

// NewRegistryFromHandlers fails unless every routable category has a handler.
func NewRegistryFromHandlers(handlers map[contractx.Category]contractx.Handler) (contractx.HandlerRegistry, error) {
	out := make(map[contractx.Category]contractx.Handler, len(handlers))
	for _, category := range contractx.RoutableCategories() {
		h, ok := handlers[category]
		if !ok || h == nil {
			return nil, fmt.Errorf("%w: no handler for category %s", contractx.ErrValidation, category)
		}
		out[category] = h
	}
	return &registryImpl{handlers: out}, nil
}
