package state

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

var (
	ErrInvalidChat    = errors.New("chat id is empty")
	ErrInvalidRole    = errors.New("role must be user or assistant")
	ErrUnknownBackend = errors.New("unknown history backend")
)

const (
	BackendMemory   = "memory"
	BackendUpstash  = "upstash"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Store is the per-chat conversation history. Messages are only ever
// appended; reads return copies in chronological order.
type Store interface {
	Append(ctx context.Context, chatID string, role contractx.Role, content string, metadata map[string]any) (contractx.ConversationMessage, error)
	Recent(ctx context.Context, chatID string, count int) ([]contractx.ConversationMessage, error)
	Dump(ctx context.Context, chatID string) ([]contractx.ConversationMessage, error)
}

// ChatKey formats a numeric chat id the way the stores key it.
func ChatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func normalizeChatID(chatID string) (string, error) {
	trimmed := strings.TrimSpace(chatID)
	if trimmed == "" {
		return "", ErrInvalidChat
	}
	return trimmed, nil
}

func newMessage(chatID string, role contractx.Role, content string, metadata map[string]any, now time.Time) (contractx.ConversationMessage, error) {
	if role != contractx.RoleUser && role != contractx.RoleAssistant {
		return contractx.ConversationMessage{}, ErrInvalidRole
	}

	var meta map[string]any
	if len(metadata) > 0 {
		meta = make(map[string]any, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}

	return contractx.ConversationMessage{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Timestamp: now.UTC(),
		Metadata:  meta,
	}, nil
}

func tail(msgs []contractx.ConversationMessage, count int) []contractx.ConversationMessage {
	if count <= 0 || len(msgs) == 0 {
		return []contractx.ConversationMessage{}
	}
	start := len(msgs) - count
	if start < 0 {
		start = 0
	}
	out := make([]contractx.ConversationMessage, 0, len(msgs)-start)
	for _, m := range msgs[start:] {
		out = append(out, m.Clone())
	}
	return out
}
