package state

import (
	"context"
	"fmt"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()

	db, err := OpenSQLite(DatabaseConfig{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLStore() error = %v", err)
	}
	return store
}

func TestSQLStoreAppendRecentDump(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSQLiteStore(t)

	for i := 0; i < 5; i++ {
		role := contractx.RoleUser
		if i%2 == 1 {
			role = contractx.RoleAssistant
		}
		if _, err := store.Append(ctx, "42", role, fmt.Sprintf("m%d", i), map[string]any{"category": "HELP"}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if _, err := store.Append(ctx, "99", contractx.RoleUser, "other chat", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	recent, err := store.Recent(ctx, "42", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	want := []string{"m2", "m3", "m4"}
	if len(recent) != len(want) {
		t.Fatalf("Recent() len = %d, want %d", len(recent), len(want))
	}
	for i, m := range recent {
		if m.Content != want[i] {
			t.Fatalf("Recent()[%d] = %q, want %q", i, m.Content, want[i])
		}
	}
	if recent[1].Role != contractx.RoleAssistant {
		t.Fatalf("Recent()[1].Role = %q, want assistant", recent[1].Role)
	}
	if recent[0].Metadata["category"] != "HELP" {
		t.Fatalf("metadata not round-tripped: %#v", recent[0].Metadata)
	}

	all, err := store.Dump(ctx, "42")
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(all) != 5 || all[0].Content != "m0" || all[4].Content != "m4" {
		t.Fatalf("Dump() = %#v", all)
	}

	none, err := store.Recent(ctx, "42", 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("Recent(0) = %#v, %v", none, err)
	}
}

func TestSQLStoreUnseenChatIsEmpty(t *testing.T) {
	t.Parallel()

	store := newSQLiteStore(t)
	got, err := store.Recent(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Recent() = %#v, want empty", got)
	}
}

func TestSQLStoreConcurrentAppendsKeepSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSQLiteStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Append(ctx, "c", contractx.RoleUser, fmt.Sprintf("%d", i), nil); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.Dump(ctx, "c")
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("Dump() len = %d, want 10", len(all))
	}
	seen := make(map[string]bool, len(all))
	for _, m := range all {
		if seen[m.ID] {
			t.Fatalf("duplicate message id %s", m.ID)
		}
		seen[m.ID] = true
	}
}
