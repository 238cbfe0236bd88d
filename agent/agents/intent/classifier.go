package intent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/prompt"
)

type Classifier struct {
	completer contractx.Completer
	template  string
}

var _ contractx.IntentClassifier = (*Classifier)(nil)

func NewClassifier(completer contractx.Completer, template string) *Classifier {
	return &Classifier{completer: completer, template: template}
}

// Classify never falls back to a default category; unknown replies are errors.
func (c *Classifier) Classify(ctx context.Context, text string) (contractx.Category, error) {
	rendered, err := prompt.Render(ctx, c.template, map[string]any{prompt.VarMessage: text})
	if err != nil {
		return "", err
	}

	reply, err := c.completer.Complete(ctx, rendered)
	if err != nil {
		return "", fmt.Errorf("classify message: %w", err)
	}

	category, err := contractx.ParseCategory(reply)
	if err != nil {
		log.Ctx(ctx).Warn().Str("component", "intent.classifier").Str("reply", reply).Msg("unparseable category")
		return "", err
	}

	log.Ctx(ctx).Debug().Str("component", "intent.classifier").Str("category", category.String()).Msg("classified")
	return category, nil
}
