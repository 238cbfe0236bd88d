package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

var (
	//go:embed template/classify.txt
	classifyRaw string

	//go:embed template/order_number.txt
	orderNumberRaw string

	//go:embed template/customer_name.txt
	customerNameRaw string

	//go:embed template/follow_up.txt
	followUpRaw string

	//go:embed template/general_query.txt
	generalQueryRaw string
)

// Template variables.
const (
	VarMessage = "message"
	VarHistory = "history"
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classify     string
	OrderNumber  string
	CustomerName string
	FollowUp     string
	GeneralQuery string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classify:     strings.TrimSpace(classifyRaw),
		OrderNumber:  strings.TrimSpace(orderNumberRaw),
		CustomerName: strings.TrimSpace(customerNameRaw),
		FollowUp:     strings.TrimSpace(followUpRaw),
		GeneralQuery: strings.TrimSpace(generalQueryRaw),
	}
}

// Validate reports the first empty template.
func (p PromptSet) Validate() error {
	for name, body := range map[string]string{
		"classify":      p.Classify,
		"order_number":  p.OrderNumber,
		"customer_name": p.CustomerName,
		"follow_up":     p.FollowUp,
		"general_query": p.GeneralQuery,
	} {
		if strings.TrimSpace(body) == "" {
			return fmt.Errorf("%w: %s", contractx.ErrPromptMissing, name)
		}
	}
	return nil
}

// Render fills an FString template. Values are substituted verbatim, so
// user text containing braces is safe.
func Render(ctx context.Context, template string, vars map[string]any) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", contractx.ErrPromptMissing
	}

	tpl := einoprompt.FromMessages(schema.FString, schema.UserMessage(template))
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("%w: template produced no message", contractx.ErrPromptMissing)
	}
	return msgs[0].Content, nil
}
