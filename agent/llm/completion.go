package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

// FallbackResponse is returned alongside every completion error.
const FallbackResponse = "Oops, I couldn't generate a response. Please try again."

var errEmptyCompletion = fmt.Errorf("%w: empty completion", contractx.ErrSchemaViolation)

// EinoCompleter runs prompt -> model -> trim as a compiled eino graph.
type EinoCompleter struct {
	runner  compose.Runnable[map[string]any, string]
	timeout time.Duration
}

var _ contractx.Completer = (*EinoCompleter)(nil)

func NewEinoCompleter(ctx context.Context, chatModel einomodel.BaseChatModel, timeout time.Duration) (*EinoCompleter, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	runner, err := compileCompletionGraph(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	return &EinoCompleter{runner: runner, timeout: timeout}, nil
}

func (c *EinoCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.runner.Invoke(ctx, map[string]any{"input": prompt})
	if err != nil {
		return FallbackResponse, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	return out, nil
}

func compileCompletionGraph(ctx context.Context, chatModel einomodel.BaseChatModel) (compose.Runnable[map[string]any, string], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add completion prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add completion model node: %w", err)
	}
	if err := graph.AddLambdaNode("trim",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
			if msg == nil {
				return "", errEmptyCompletion
			}
			text := strings.TrimSpace(msg.Content)
			if text == "" {
				return "", errEmptyCompletion
			}
			return text, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add completion trim node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add completion edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add completion edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "trim"); err != nil {
		return nil, fmt.Errorf("add completion edge model->trim: %w", err)
	}
	if err := graph.AddEdge("trim", compose.END); err != nil {
		return nil, fmt.Errorf("add completion edge trim->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("llm.completion_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile completion graph: %w", err)
	}
	return runner, nil
}
