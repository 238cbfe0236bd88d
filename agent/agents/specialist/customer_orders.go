package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/tool"
)

const (
	MsgCustomerNameRequired = "I need a customer name to look up orders. Please provide the customer's first and last name."
	MsgCustomerNameParts    = "Please provide both first and last name of the customer, for example: John Doe."
)

// CustomerOrdersAgent lists a customer's orders newest first. Names must be
// exactly two whitespace-separated tokens.
type CustomerOrdersAgent struct {
	orders *tool.OrderTool
}

var _ contractx.Handler = (*CustomerOrdersAgent)(nil)

func NewCustomerOrdersAgent(orders *tool.OrderTool) *CustomerOrdersAgent {
	return &CustomerOrdersAgent{orders: orders}
}

func (a *CustomerOrdersAgent) Handle(ctx context.Context, text string, customerName *string) string {
	name := paramValue(customerName)
	if name == "" {
		return MsgCustomerNameRequired
	}

	parts := strings.Fields(name)
	if len(parts) != 2 {
		return MsgCustomerNameParts
	}
	name = parts[0] + " " + parts[1]

	orders, err := a.orders.CustomerOrders(ctx, parts[0], parts[1])
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "specialist.customer_orders").Str("customer", name).Msg("order search failed")
		return fmt.Sprintf("Error fetching orders for customer %s. Please try again later.", name)
	}
	if len(orders) == 0 {
		return fmt.Sprintf("No orders found for customer: %s", name)
	}

	sections := make([]string, 0, len(orders)+1)
	sections = append(sections, fmt.Sprintf("📋 *Orders for %s* (%d)", name, len(orders)))
	for _, o := range orders {
		sections = append(sections, FormatOrderSummary(o))
	}
	return strings.Join(sections, "\n\n")
}
