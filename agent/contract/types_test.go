package contract

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Category
	}{
		{in: "REFUND_AGENT", want: CategoryRefund},
		{in: "ORDER_DETAILS", want: CategoryOrderDetails},
		{in: "  customer_orders_agent\n", want: CategoryCustomerOrders},
		{in: "\"HELP_AGENT\".", want: CategoryHelp},
		{in: "`DAILY_SALES_AGENT`", want: CategoryDailySales},
		{in: "'REFUND'.", want: CategoryRefund},
		{in: "\"ORDER_STATUS_AGENT.\"", want: CategoryOrderStatus},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseCategoryRejectsUnknownTokens(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "GENERAL", "GENERAL_QUERY", "SHIPPING_AGENT", "I think REFUND_AGENT"} {
		if _, err := ParseCategory(in); !errors.Is(err, ErrUnknownCategory) {
			t.Fatalf("ParseCategory(%q) error = %v, want ErrUnknownCategory", in, err)
		}
	}
}

func TestCleanToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`"NONE".`:            "NONE",
		"  'GENERAL_QUERY' ": "GENERAL_QUERY",
		"`x`..":              "x",
		"John Doe":           "John Doe",
	}
	for in, want := range tests {
		if got := CleanToken(in); got != want {
			t.Fatalf("CleanToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRouteDecisionParamFor(t *testing.T) {
	t.Parallel()

	order := "345"
	name := "John Doe"
	d := RouteDecision{OrderNumber: &order, CustomerName: &name}

	d.Category = CategoryRefund
	if got := d.ParamFor(); got == nil || *got != order {
		t.Fatalf("refund param = %v, want %q", got, order)
	}
	d.Category = CategoryCustomerOrders
	if got := d.ParamFor(); got == nil || *got != name {
		t.Fatalf("customer orders param = %v, want %q", got, name)
	}
	d.Category = CategoryHelp
	if got := d.ParamFor(); got != nil {
		t.Fatalf("help param = %v, want nil", *got)
	}
}

func TestConversationMessageCloneDetachesMetadata(t *testing.T) {
	t.Parallel()

	m := ConversationMessage{Metadata: map[string]any{"category": "HELP"}}
	c := m.Clone()
	c.Metadata["category"] = "REFUND"
	if m.Metadata["category"] != "HELP" {
		t.Fatalf("original metadata mutated: %v", m.Metadata)
	}
}
