package contract

import (
	"fmt"
	"strings"
	"time"
)

// AgentType selects the model settings used for one kind of completion call.
type AgentType string

const (
	AgentTypeClassifier AgentType = "classifier"
	AgentTypeExtractor  AgentType = "extractor"
	AgentTypeResponder  AgentType = "responder"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Category is the closed set of routing destinations.
type Category string

const (
	CategoryComparison     Category = "COMPARISON"
	CategoryDailySales     Category = "DAILY_SALES"
	CategoryRefund         Category = "REFUND"
	CategoryOrderDetails   Category = "ORDER_DETAILS"
	CategoryOrderStatus    Category = "ORDER_STATUS"
	CategoryCustomerOrders Category = "CUSTOMER_ORDERS"
	CategoryHelp           Category = "HELP"

	// CategoryGeneral marks a follow-up answered from history; it is never dispatched.
	CategoryGeneral Category = "GENERAL"
)

const agentSuffix = "_AGENT"

var routableCategories = []Category{
	CategoryComparison,
	CategoryDailySales,
	CategoryRefund,
	CategoryOrderDetails,
	CategoryOrderStatus,
	CategoryCustomerOrders,
	CategoryHelp,
}

// RoutableCategories returns the categories that map to a handler agent.
func RoutableCategories() []Category {
	return append([]Category(nil), routableCategories...)
}

func (c Category) String() string {
	return string(c)
}

// AgentToken is the label the classifier prompt asks the model to answer with.
func (c Category) AgentToken() string {
	return string(c) + agentSuffix
}

func (c Category) IsRoutable() bool {
	for _, rc := range routableCategories {
		if rc == c {
			return true
		}
	}
	return false
}

// ParseCategory maps a classifier reply onto a routable category. Both the
// bare name and the _AGENT form are accepted.
func ParseCategory(token string) (Category, error) {
	cleaned := strings.ToUpper(CleanToken(token))
	cleaned = strings.TrimSuffix(cleaned, agentSuffix)

	c := Category(cleaned)
	if !c.IsRoutable() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, token)
	}
	return c, nil
}

// CleanToken strips whitespace, quotes and trailing periods from a one-word
// model reply until nothing more comes off.
func CleanToken(reply string) string {
	out := strings.TrimSpace(reply)
	for {
		next := strings.TrimSpace(strings.Trim(strings.TrimRight(out, "."), "\"'`"))
		if next == out {
			return out
		}
		out = next
	}
}

// ConversationMessage is one immutable entry of a chat history.
type ConversationMessage struct {
	ID        string         `json:"id"`
	ChatID    string         `json:"chat_id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Clone returns a copy whose metadata map is not shared with m.
func (m ConversationMessage) Clone() ConversationMessage {
	out := m
	if m.Metadata != nil {
		out.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// RouteDecision is produced fresh for every inbound message.
type RouteDecision struct {
	Category     Category `json:"category"`
	OrderNumber  *string  `json:"order_number,omitempty"`
	CustomerName *string  `json:"customer_name,omitempty"`

	// Response is only set for CategoryGeneral.
	Response string `json:"response,omitempty"`
}

// ParamFor returns the extracted parameter the category's handler consumes.
func (d RouteDecision) ParamFor() *string {
	switch d.Category {
	case CategoryOrderDetails, CategoryOrderStatus, CategoryRefund:
		return d.OrderNumber
	case CategoryCustomerOrders:
		return d.CustomerName
	default:
		return nil
	}
}

// RouteResult is what the inbound webhook receives per chat message.
type RouteResult struct {
	Category Category      `json:"category"`
	Response string        `json:"response"`
	Decision RouteDecision `json:"decision"`
	Failed   bool          `json:"failed,omitempty"`
}
