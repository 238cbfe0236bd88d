package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Order-Router/pkg/openrouter"
)

// OpenAICompleter talks to the chat completions endpoint through the OpenAI SDK.
type OpenAICompleter struct {
	client      *openaisdk.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
}

var _ contractx.Completer = (*OpenAICompleter)(nil)

func NewOpenAICompleter(client *openaisdk.Client, cfg openrouterx.Config) (*OpenAICompleter, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, err)
	}

	c := &OpenAICompleter{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		temperature: float64(cfg.Temperature),
		timeout:     cfg.Timeout,
	}
	if cfg.MaxCompletionToken != nil && *cfg.MaxCompletionToken > 0 {
		c.maxTokens = int64(*cfg.MaxCompletionToken)
	}
	return c, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		Temperature: openaisdk.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(c.maxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return FallbackResponse, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return FallbackResponse, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, errEmptyCompletion)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return FallbackResponse, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, errEmptyCompletion)
	}
	return text, nil
}
