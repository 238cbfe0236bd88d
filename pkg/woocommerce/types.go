package woocommerce

import (
	"encoding/json"
	"strings"
	"time"
)

// WooCommerce emits local times without a zone; the date-only and zoned
// forms show up in imported stores.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type Order struct {
	ID           json.Number `json:"id"`
	Number       string      `json:"number"`
	Status       string      `json:"status"`
	Currency     string      `json:"currency"`
	DateCreated  string      `json:"date_created"`
	DateModified string      `json:"date_modified"`
	Total        string      `json:"total"`
	Billing      Billing     `json:"billing"`
	LineItems    []LineItem  `json:"line_items"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type LineItem struct {
	ID        json.Number `json:"id,omitempty"`
	ProductID json.Number `json:"product_id,omitempty"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Total     string      `json:"total,omitempty"`
}

// CustomerName is the billing first and last name.
func (o Order) CustomerName() string {
	return strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName)
}

// CreatedAt parses DateCreated. The zero time is returned for missing or
// malformed values.
func (o Order) CreatedAt() time.Time {
	return parseDate(o.DateCreated)
}

func (o Order) ModifiedAt() time.Time {
	return parseDate(o.DateModified)
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
