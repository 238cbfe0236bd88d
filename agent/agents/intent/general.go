package intent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/llm"
	"github.com/tanpawarit/Chative-Order-Router/agent/prompt"
	"github.com/tanpawarit/Chative-Order-Router/agent/state"
)

// GeneralResponder answers follow-up questions from the chat transcript only.
type GeneralResponder struct {
	completer contractx.Completer
	history   state.Store
	template  string
	window    int
}

var _ contractx.GeneralResponder = (*GeneralResponder)(nil)

func NewGeneralResponder(completer contractx.Completer, history state.Store, template string, window int) *GeneralResponder {
	return &GeneralResponder{
		completer: completer,
		history:   history,
		template:  template,
		window:    window,
	}
}

// Answer returns the completer's fallback text when the service fails.
// Only history and prompt errors are returned.
func (g *GeneralResponder) Answer(ctx context.Context, text string, chatID string) (string, error) {
	prior, err := priorTurns(ctx, g.history, chatID, text, g.window)
	if err != nil {
		return "", err
	}

	rendered, err := prompt.Render(ctx, g.template, map[string]any{
		prompt.VarHistory: FormatTranscript(prior),
		prompt.VarMessage: text,
	})
	if err != nil {
		return "", err
	}

	answer, err := g.completer.Complete(ctx, rendered)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "intent.general").Msg("general answer failed")
		if strings.TrimSpace(answer) == "" {
			answer = llm.FallbackResponse
		}
	}
	return answer, nil
}
