package intent

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/prompt"
	"github.com/tanpawarit/Chative-Order-Router/agent/state"
)

const (
	LabelGeneralQuery = "GENERAL_QUERY"
	LabelRouteToAgent = "ROUTE_TO_AGENT"
)

// FollowUpDetector decides whether a message refers back to earlier turns.
type FollowUpDetector struct {
	completer contractx.Completer
	history   state.Store
	template  string
	window    int
}

var _ contractx.FollowUpDetector = (*FollowUpDetector)(nil)

func NewFollowUpDetector(completer contractx.Completer, history state.Store, template string, window int) *FollowUpDetector {
	return &FollowUpDetector{
		completer: completer,
		history:   history,
		template:  template,
		window:    window,
	}
}

func (d *FollowUpDetector) IsFollowUp(ctx context.Context, text string, chatID string) (bool, error) {
	prior, err := priorTurns(ctx, d.history, chatID, text, d.window)
	if err != nil {
		return false, err
	}
	// Nothing to refer back to.
	if len(prior) == 0 {
		return false, nil
	}

	rendered, err := prompt.Render(ctx, d.template, map[string]any{
		prompt.VarHistory: FormatTranscript(prior),
		prompt.VarMessage: text,
	})
	if err != nil {
		return false, err
	}

	reply, err := d.completer.Complete(ctx, rendered)
	if err != nil {
		return false, fmt.Errorf("follow-up check: %w", err)
	}
	return strings.EqualFold(cleanToken(reply), LabelGeneralQuery), nil
}
