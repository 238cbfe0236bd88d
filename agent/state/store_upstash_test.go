package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

// fakeRedis answers the subset of the Upstash REST protocol the store uses.
type fakeRedis struct {
	mu       sync.Mutex
	lists    map[string][]string
	commands [][]any
	// failExpire makes EXPIRE answer with an error.
	failExpire bool
}

func newFakeRedis(t *testing.T) (*fakeRedis, *httptest.Server) {
	t.Helper()

	fr := &fakeRedis{lists: make(map[string][]string)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		result, err := fr.apply(cmd)
		if err != nil {
			_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
	}))
	t.Cleanup(server.Close)
	return fr, server
}

func (f *fakeRedis) apply(cmd []any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)

	key, _ := cmd[1].(string)
	switch cmd[0] {
	case "RPUSH":
		f.lists[key] = append(f.lists[key], cmd[2].(string))
		return len(f.lists[key]), nil
	case "EXPIRE":
		if f.failExpire {
			return nil, errors.New("ERR expire unavailable")
		}
		return 1, nil
	case "LRANGE":
		list := f.lists[key]
		start, stop := int(cmd[2].(float64)), int(cmd[3].(float64))
		if start < 0 {
			start += len(list)
		}
		if start < 0 {
			start = 0
		}
		if stop < 0 {
			stop += len(list)
		}
		if stop >= len(list) {
			stop = len(list) - 1
		}
		if len(list) == 0 || start > stop {
			return []string{}, nil
		}
		return list[start : stop+1], nil
	}
	return nil, fmt.Errorf("ERR unknown command %v", cmd[0])
}

func (f *fakeRedis) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.commands))
	for _, c := range f.commands {
		out = append(out, c[0].(string))
	}
	return out
}

func TestUpstashRedisStoreRedisKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.redisKey(" 42 ")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "anna:chat:42" {
		t.Fatalf("redisKey() = %q, want %q", got, "anna:chat:42")
	}

	store.keyPrefix = "test:"
	got, _ = store.redisKey("42")
	if got != "test:42" {
		t.Fatalf("redisKey() = %q, want %q", got, "test:42")
	}
}

func TestUpstashRedisStoreRedisKeyEmptyChat(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	_, err := store.redisKey("   ")
	if !errors.Is(err, ErrInvalidChat) {
		t.Fatalf("redisKey() error = %v, want ErrInvalidChat", err)
	}
}

func TestUpstashRedisStoreAppendAndRecent(t *testing.T) {
	t.Parallel()

	fr, server := newFakeRedis(t)
	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		role := contractx.RoleUser
		if i%2 == 1 {
			role = contractx.RoleAssistant
		}
		if _, err := store.Append(ctx, "42", role, fmt.Sprintf("m%d", i), map[string]any{"n": i}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recent, err := store.Recent(ctx, "42", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Content != "m2" || recent[1].Content != "m3" {
		t.Fatalf("Recent() = %#v", recent)
	}
	if recent[1].Role != contractx.RoleAssistant {
		t.Fatalf("Recent()[1].Role = %q", recent[1].Role)
	}

	all, err := store.Dump(ctx, "42")
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(all) != 4 || all[0].Content != "m0" {
		t.Fatalf("Dump() = %#v", all)
	}

	for _, name := range fr.names() {
		if name == "EXPIRE" {
			t.Fatalf("EXPIRE sent with zero ttl")
		}
	}
	fr.mu.Lock()
	_, ok := fr.lists["anna:chat:42"]
	fr.mu.Unlock()
	if !ok {
		t.Fatalf("history not stored under anna:chat:42")
	}
}

func TestUpstashRedisStoreUnseenChatIsEmpty(t *testing.T) {
	t.Parallel()

	_, server := newFakeRedis(t)
	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	got, err := store.Recent(context.Background(), "7", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Recent() = %#v, want empty", got)
	}
}

func TestUpstashRedisStoreAppendSetsTTL(t *testing.T) {
	t.Parallel()

	fr, server := newFakeRedis(t)
	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithTTL(1500*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Append(context.Background(), "1", contractx.RoleUser, "hi", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()
	if len(fr.commands) != 2 || fr.commands[1][0] != "EXPIRE" {
		t.Fatalf("commands = %#v, want RPUSH then EXPIRE", fr.commands)
	}
	if fr.commands[1][2] != float64(2) {
		t.Fatalf("EXPIRE seconds = %v, want 2", fr.commands[1][2])
	}
}

func TestUpstashRedisStoreAppendKeepsMessageWhenTTLFails(t *testing.T) {
	t.Parallel()

	fr, server := newFakeRedis(t)
	fr.failExpire = true
	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithTTL(time.Minute),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	msg, err := store.Append(context.Background(), "1", contractx.RoleUser, "hi", nil)
	if err != nil {
		t.Fatalf("Append() error = %v, want nil when only EXPIRE fails", err)
	}
	if msg.Content != "hi" {
		t.Fatalf("Append() = %+v", msg)
	}

	got, err := store.Dump(context.Background(), "1")
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(got) != 1 || got[0].Content != "hi" {
		t.Fatalf("Dump() = %#v, want the appended message", got)
	}
}

func TestUpstashRedisStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGTYPE Operation against a key holding the wrong kind of value"}`)
	}))
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Dump(context.Background(), "1"); err == nil {
		t.Fatal("Dump() error = nil, want redis error")
	}
}

func TestNewUpstashRedisStoreValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "x"}); err == nil {
		t.Fatal("expected error for missing url")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("expected error for missing token")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "x"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}

func TestTTLSeconds(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]int64{
		time.Millisecond:        1,
		time.Second:             1,
		1500 * time.Millisecond: 2,
		time.Hour:               3600,
	}
	for in, want := range cases {
		if got := ttlSeconds(in); got != want {
			t.Fatalf("ttlSeconds(%v) = %d, want %d", in, got, want)
		}
	}
}
