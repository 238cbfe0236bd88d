package specialist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

// PlaceholderAgent answers for categories without business logic yet.
type PlaceholderAgent struct {
	name string
}

var _ contractx.Handler = (*PlaceholderAgent)(nil)

func NewPlaceholderAgent(name string) *PlaceholderAgent {
	return &PlaceholderAgent{name: name}
}

func (a *PlaceholderAgent) Handle(ctx context.Context, text string, _ *string) string {
	log.Ctx(ctx).Debug().Str("component", "specialist").Str("agent", a.name).Str("text", text).Msg("placeholder agent")
	return fmt.Sprintf("This would be handled by the %s Agent", a.name)
}
