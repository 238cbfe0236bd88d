package intent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/prompt"
)

// NoneSentinel is the literal reply meaning "no value in this message".
const NoneSentinel = "NONE"

// Extractor pulls one parameter out of a message with a few-shot prompt.
type Extractor struct {
	name      string
	completer contractx.Completer
	template  string
}

var _ contractx.ParameterExtractor = (*Extractor)(nil)

func NewExtractor(name string, completer contractx.Completer, template string) *Extractor {
	return &Extractor{name: name, completer: completer, template: template}
}

// Extract returns nil for the sentinel and for completion failures; a
// missing parameter is handled downstream by asking the user.
func (e *Extractor) Extract(ctx context.Context, text string) (*string, error) {
	rendered, err := prompt.Render(ctx, e.template, map[string]any{prompt.VarMessage: text})
	if err != nil {
		return nil, err
	}

	reply, err := e.completer.Complete(ctx, rendered)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "intent.extractor").Str("param", e.name).Msg("extraction failed")
		return nil, nil
	}

	value := strings.TrimSpace(reply)
	if value == "" || strings.EqualFold(cleanToken(value), NoneSentinel) {
		return nil, nil
	}

	log.Ctx(ctx).Debug().Str("component", "intent.extractor").Str("param", e.name).Str("value", value).Msg("extracted")
	return &value, nil
}
