package policy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/open-policy-agent/opa/rego"
)

const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

type Config struct {
	// AllowedChatIDs limits the bot to these chats. Empty allows every chat.
	AllowedChatIDs []string `envconfig:"ALLOWED_CHAT_IDS"`
	// File replaces DefaultPolicy with a rego module read from disk.
	File string `split_words:"true"`
}

// ChatInput is the document the policy evaluates.
type ChatInput struct {
	ChatID         string   `json:"chat_id"`
	ChatType       string   `json:"chat_type"`
	AllowedChatIDs []string `json:"allowed_chat_ids"`
}

// Engine decides which chats may talk to the bot.
type Engine struct {
	query   rego.PreparedEvalQuery
	allowed []string
}

func NewEngine(ctx context.Context, policyContent string, allowedChatIDs []string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	allowed := make([]string, 0, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		if id = strings.TrimSpace(id); id != "" {
			allowed = append(allowed, id)
		}
	}

	return &Engine{query: query, allowed: allowed}, nil
}

// NewFromConfig loads cfg.File when set and falls back to DefaultPolicy.
func NewFromConfig(ctx context.Context, cfg Config) (*Engine, error) {
	content := DefaultPolicy
	if path := strings.TrimSpace(cfg.File); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read policy file: %w", err)
		}
		content = string(b)
	}
	return NewEngine(ctx, content, cfg.AllowedChatIDs)
}

// Evaluate returns the policy decision for one chat.
func (e *Engine) Evaluate(ctx context.Context, chatID string, chatType string) (string, error) {
	input := ChatInput{
		ChatID:         strings.TrimSpace(chatID),
		ChatType:       chatType,
		AllowedChatIDs: e.allowed,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionDeny, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionDeny, nil
}

func (e *Engine) Allow(ctx context.Context, chatID string, chatType string) (bool, error) {
	decision, err := e.Evaluate(ctx, chatID, chatType)
	if err != nil {
		return false, err
	}
	return decision == DecisionAllow, nil
}

// DefaultPolicy serves private and group chats. Channels are never answered.
const DefaultPolicy = `
package chat_policy

import rego.v1

default decision := "deny"

served_type if input.chat_type != "channel"

decision := "allow" if {
	served_type
	count(input.allowed_chat_ids) == 0
}

decision := "allow" if {
	served_type
	input.chat_id in input.allowed_chat_ids
}
`
