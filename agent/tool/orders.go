package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tanpawarit/Chative-Order-Router/pkg/woocommerce"
)

var ErrMissingLookup = errors.New("order lookup is required")

// OrderLookup is the slice of the store API the handlers need.
type OrderLookup interface {
	GetOrder(ctx context.Context, id string) (*woocommerce.Order, error)
	SearchOrders(ctx context.Context, query string) ([]woocommerce.Order, error)
}

var _ OrderLookup = (*woocommerce.Client)(nil)

type OrderTool struct {
	lookup OrderLookup
}

func NewOrderTool(lookup OrderLookup) (*OrderTool, error) {
	if lookup == nil {
		return nil, ErrMissingLookup
	}
	return &OrderTool{lookup: lookup}, nil
}

// NormalizeOrderNumber strips whitespace and a leading '#'.
func NormalizeOrderNumber(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}

// Order returns nil, nil when the order does not exist.
func (t *OrderTool) Order(ctx context.Context, number string) (*woocommerce.Order, error) {
	id := NormalizeOrderNumber(number)
	if id == "" {
		return nil, errors.New("order number is required")
	}
	order, err := t.lookup.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

// CustomerOrders searches by full name, keeps exact billing-name matches
// (case-insensitive) and sorts them newest first.
func (t *OrderTool) CustomerOrders(ctx context.Context, firstName, lastName string) ([]woocommerce.Order, error) {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	if first == "" || last == "" {
		return nil, errors.New("first and last name are required")
	}

	found, err := t.lookup.SearchOrders(ctx, first+" "+last)
	if err != nil {
		return nil, fmt.Errorf("search orders for %s %s: %w", first, last, err)
	}

	matches := make([]woocommerce.Order, 0, len(found))
	for _, o := range found {
		if strings.EqualFold(strings.TrimSpace(o.Billing.FirstName), first) &&
			strings.EqualFold(strings.TrimSpace(o.Billing.LastName), last) {
			matches = append(matches, o)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt().After(matches[j].CreatedAt())
	})
	return matches, nil
}
