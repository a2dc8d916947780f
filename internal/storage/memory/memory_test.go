package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"goldvault/internal/storage"
)

var _ storage.Store = (*Store)(nil)

func TestMemoryStoreSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "expenses"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	in := []byte(`[]`)
	if err := s.Set(ctx, "expenses", in); err != nil {
		t.Fatalf("Set: %v", err)
	}
	in[0] = 'x'
	got, err := s.Get(ctx, "expenses")
	if err != nil || string(got) != `[]` {
		t.Fatalf("Get() = %q, %v; stored value must not alias the input", got, err)
	}

	if err := s.Remove(ctx, "expenses"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "expenses"); err != nil {
		t.Fatalf("Remove of absent key: %v", err)
	}
	keys, _ := s.Keys(ctx)
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestNewFromFilesSeedsKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// No files -> empty
	s := NewFromFiles(filepath.Join(dir, "missing"))
	if keys, _ := s.Keys(ctx); len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("budgets.json", `[{"category":"Food"}]`)
	mustWrite("savingsGoals.json", `[]`)
	mustWrite("notes.txt", "ignored")

	s = NewFromFiles(dir)
	keys, _ := s.Keys(ctx)
	if len(keys) != 2 || keys[0] != "budgets" || keys[1] != "savingsGoals" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	got, err := s.Get(ctx, "budgets")
	if err != nil || string(got) != `[{"category":"Food"}]` {
		t.Fatalf("Get(budgets) = %q, %v", got, err)
	}
}
