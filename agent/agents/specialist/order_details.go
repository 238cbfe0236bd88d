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
	MsgOrderNumberRequired = "I need an order number to fetch the details. Please provide an order number."
	MsgStatusNumberMissing = "I need an order number to check the status. Please provide an order number."
)

type OrderDetailsAgent struct {
	orders *tool.OrderTool
}

var _ contractx.Handler = (*OrderDetailsAgent)(nil)

func NewOrderDetailsAgent(orders *tool.OrderTool) *OrderDetailsAgent {
	return &OrderDetailsAgent{orders: orders}
}

func (a *OrderDetailsAgent) Handle(ctx context.Context, text string, orderNumber *string) string {
	number := orderNumberParam(orderNumber)
	if number == "" {
		return MsgOrderNumberRequired
	}

	order, err := a.orders.Order(ctx, number)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "specialist.order_details").Str("order_number", number).Msg("order lookup failed")
		return fmt.Sprintf("Error fetching details for order %s. Please verify the order number and try again.", number)
	}
	if order == nil {
		return fmt.Sprintf("No order found with order number: %s", number)
	}
	return FormatOrderSummary(*order)
}

type OrderStatusAgent struct {
	orders *tool.OrderTool
}

var _ contractx.Handler = (*OrderStatusAgent)(nil)

func NewOrderStatusAgent(orders *tool.OrderTool) *OrderStatusAgent {
	return &OrderStatusAgent{orders: orders}
}

func (a *OrderStatusAgent) Handle(ctx context.Context, text string, orderNumber *string) string {
	number := orderNumberParam(orderNumber)
	if number == "" {
		return MsgStatusNumberMissing
	}

	order, err := a.orders.Order(ctx, number)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "specialist.order_status").Str("order_number", number).Msg("order lookup failed")
		return fmt.Sprintf("Error fetching status for order %s. Please verify the order number and try again.", number)
	}
	if order == nil {
		return fmt.Sprintf("No order found with order number: %s", number)
	}

	reply := fmt.Sprintf("Order #%s is currently: %s", orderID(*order), order.Status)
	if modified := order.ModifiedAt(); !modified.IsZero() {
		reply += "\nLast updated: " + modified.Format(displayDateLayout)
	}
	return reply
}

func orderNumberParam(p *string) string {
	return tool.NormalizeOrderNumber(paramValue(p))
}

func paramValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
