package state

import (
	"context"
	"sync"
	"time"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

// MemoryStore keeps histories for the lifetime of the process. Every instance
// is independent.
type MemoryStore struct {
	mu    sync.RWMutex
	chats map[string]*chatLog
	now   func() time.Time
}

type chatLog struct {
	mu       sync.Mutex
	messages []contractx.ConversationMessage
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats: make(map[string]*chatLog),
		now:   time.Now,
	}
}

func (s *MemoryStore) Append(
	ctx context.Context,
	chatID string,
	role contractx.Role,
	content string,
	metadata map[string]any,
) (contractx.ConversationMessage, error) {
	key, err := normalizeChatID(chatID)
	if err != nil {
		return contractx.ConversationMessage{}, err
	}
	msg, err := newMessage(key, role, content, metadata, s.now())
	if err != nil {
		return contractx.ConversationMessage{}, err
	}

	log := s.chat(key, true)
	log.mu.Lock()
	log.messages = append(log.messages, msg)
	log.mu.Unlock()

	return msg.Clone(), nil
}

func (s *MemoryStore) Recent(ctx context.Context, chatID string, count int) ([]contractx.ConversationMessage, error) {
	key, err := normalizeChatID(chatID)
	if err != nil {
		return nil, err
	}
	log := s.chat(key, false)
	if log == nil {
		return []contractx.ConversationMessage{}, nil
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	return tail(log.messages, count), nil
}

func (s *MemoryStore) Dump(ctx context.Context, chatID string) ([]contractx.ConversationMessage, error) {
	key, err := normalizeChatID(chatID)
	if err != nil {
		return nil, err
	}
	log := s.chat(key, false)
	if log == nil {
		return []contractx.ConversationMessage{}, nil
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	return tail(log.messages, len(log.messages)), nil
}

func (s *MemoryStore) chat(key string, create bool) *chatLog {
	s.mu.RLock()
	log, ok := s.chats[key]
	s.mu.RUnlock()
	if ok || !create {
		return log
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok = s.chats[key]; ok {
		return log
	}
	log = &chatLog{}
	s.chats[key] = log
	return log
}
