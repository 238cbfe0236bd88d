package specialist

import (
	"fmt"
	"strings"

	"github.com/tanpawarit/Chative-Order-Router/pkg/woocommerce"
)

const displayDateLayout = "02 Jan 2006 15:04"

// FormatOrderSummary renders the multi-line order card used by the order
// handlers.
func FormatOrderSummary(o woocommerce.Order) string {
	product := "N/A"
	if len(o.LineItems) > 0 && strings.TrimSpace(o.LineItems[0].Name) != "" {
		product = o.LineItems[0].Name
	}

	lines := []string{
		"📦 *Order Details*",
		"━━━━━━━━━━━━━━━━",
		fmt.Sprintf("🆔 Order #%s", orderID(o)),
		fmt.Sprintf("📊 Status: %s", o.Status),
		fmt.Sprintf("📅 Date: %s", createdDate(o)),
		fmt.Sprintf("📦 Product: %s", product),
		fmt.Sprintf("💰 Total: %s", o.Total),
		fmt.Sprintf("👤 Customer: %s", o.CustomerName()),
	}
	return strings.Join(lines, "\n")
}

func orderID(o woocommerce.Order) string {
	if id := o.ID.String(); id != "" {
		return id
	}
	return o.Number
}

func createdDate(o woocommerce.Order) string {
	if t := o.CreatedAt(); !t.IsZero() {
		return t.Format(displayDateLayout)
	}
	if raw := strings.TrimSpace(o.DateCreated); raw != "" {
		return raw
	}
	return "N/A"
}
