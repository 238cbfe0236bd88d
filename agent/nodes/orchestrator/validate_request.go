package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidChat    = errors.New("chat id is empty")
)

type GraphInput struct {
	ChatID   string
	Text     string
	Metadata map[string]any
}

type GraphOutput struct {
	Decision contractx.RouteDecision
}

type GraphState struct {
	ChatID   string
	Text     string
	Now      time.Time
	Metadata map[string]any

	FollowUp bool
	Category contractx.Category
	Decision contractx.RouteDecision
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	chatID := strings.TrimSpace(in.ChatID)
	if chatID == "" {
		return nil, ErrInvalidChat
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		ChatID:   chatID,
		Text:     text,
		Now:      nowFn().UTC(),
		Metadata: in.Metadata,
	}, nil
}
