package llm

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Order-Router/pkg/openrouter"
)

// NewCompleter builds the completer for one agent type using the configured driver.
func NewCompleter(ctx context.Context, cfg Config, agentType contractx.AgentType) (contractx.Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	orCfg := cfg.OpenRouterFor(agentType)

	switch cfg.driver() {
	case DriverOpenAI:
		return NewOpenAICompleter(openrouterx.NewClient(orCfg), orCfg)
	default:
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("build %s chat model: %w", agentType, err)
		}
		return NewEinoCompleter(ctx, chatModel, orCfg.Timeout)
	}
}
