// Package persistence moves whole record collections in and out of the local
// key-value store, one key per record type.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"goldvault/internal/log"
	"goldvault/internal/storage"
)

// Key names a persisted value. The strings are the on-disk layout.
type Key string

const (
	KeyExpenses            Key = "expenses"
	KeyInvestments         Key = "investments"
	KeyBudgets             Key = "budgets"
	KeySavingsGoals        Key = "savingsGoals"
	KeyOnboardingCompleted Key = "hasCompletedOnboarding"
	KeyInitialBudget       Key = "initialBudget"
)

// AllKeys lists every key ClearAll removes.
func AllKeys() []Key {
	return []Key{KeyExpenses, KeyInvestments, KeyBudgets, KeySavingsGoals, KeyOnboardingCompleted, KeyInitialBudget}
}

func (k Key) String() string { return string(k) }

var (
	ErrNotFound   = errors.New("no persisted value")
	ErrDecode     = errors.New("malformed persisted value")
	ErrSaveFailed = errors.New("save failed")
)

// Gateway is the single owner of the store on behalf of the managers.
type Gateway struct {
	store  storage.Store
	logger *log.Logger
}

func NewGateway(store storage.Store, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Discard()
	}
	return &Gateway{store: store, logger: logger.WithComponent(log.ComponentGateway)}
}

// Store exposes the underlying store, e.g. for closing it.
func (g *Gateway) Store() storage.Store { return g.store }

// LoadResult is the outcome of reading a collection. Err is nil on success;
// otherwise it wraps ErrNotFound, ErrDecode or the storage failure.
type LoadResult[T any] struct {
	Items []T
	Err   error
}

func (r LoadResult[T]) OK() bool { return r.Err == nil }

// OrEmpty returns the loaded items, or an empty collection when loading
// failed for any reason.
func (r LoadResult[T]) OrEmpty() []T {
	if r.Err != nil || r.Items == nil {
		return []T{}
	}
	return r.Items
}

// Save encodes the full ordered collection and replaces the value under key.
// The returned error wraps ErrSaveFailed.
func Save[T any](ctx context.Context, g *Gateway, key Key, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return g.saveFailed(ctx, key, len(items), fmt.Errorf("encode: %w", err))
	}
	if err := g.store.Set(ctx, string(key), b); err != nil {
		return g.saveFailed(ctx, key, len(items), err)
	}
	g.logger.DebugContext(ctx, "Saved collection",
		log.FieldKey, string(key),
		log.FieldCount, len(items),
		log.FieldBytes, len(b))
	return nil
}

func (g *Gateway) saveFailed(ctx context.Context, key Key, count int, cause error) error {
	fields := log.NewFields().
		WithOperation(log.OpSave).
		WithCollection(string(key), count).
		WithError(cause)
	g.logger.WithFields(fields).WarnContext(ctx, "Collection not persisted, in-memory state kept")
	return fmt.Errorf("%w: %s: %w", ErrSaveFailed, key, cause)
}

// Load reads and decodes the collection stored under key.
func Load[T any](ctx context.Context, g *Gateway, key Key) LoadResult[T] {
	b, err := g.store.Get(ctx, string(key))
	if errors.Is(err, storage.ErrNotFound) {
		return LoadResult[T]{Err: fmt.Errorf("%w: %s", ErrNotFound, key)}
	}
	if err != nil {
		return LoadResult[T]{Err: fmt.Errorf("load %s: %w", key, err)}
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return LoadResult[T]{Err: fmt.Errorf("%w: %s: %w", ErrDecode, key, err)}
	}
	if items == nil {
		// "null" decodes without error; treat it as an empty collection.
		items = []T{}
	}
	return LoadResult[T]{Items: items}
}

// ClearAll removes every key, returning persisted state to first-run
// condition. Each removal is attempted even if an earlier one failed; there
// is no transaction across them.
func (g *Gateway) ClearAll(ctx context.Context) error {
	var errs []error
	for _, k := range AllKeys() {
		if err := g.store.Remove(ctx, string(k)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", k, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		g.logger.WarnContext(ctx, "Clear left persisted state partially removed",
			log.FieldOperation, log.OpClear,
			log.FieldError, err)
		return err
	}
	g.logger.InfoContext(ctx, "Cleared all persisted data", log.FieldOperation, log.OpClear)
	return nil
}

// SetOnboardingCompleted stores the first-run gate.
func (g *Gateway) SetOnboardingCompleted(ctx context.Context, done bool) error {
	return g.store.Set(ctx, string(KeyOnboardingCompleted), []byte(strconv.FormatBool(done)))
}

// OnboardingCompleted reports the first-run gate; absent or unreadable means false.
func (g *Gateway) OnboardingCompleted(ctx context.Context) bool {
	b, err := g.store.Get(ctx, string(KeyOnboardingCompleted))
	if err != nil {
		return false
	}
	done, err := strconv.ParseBool(string(b))
	return err == nil && done
}

// SetInitialBudget stores the total budget entered during onboarding.
func (g *Gateway) SetInitialBudget(ctx context.Context, amount float64) error {
	return g.store.Set(ctx, string(KeyInitialBudget), []byte(strconv.FormatFloat(amount, 'f', -1, 64)))
}

// InitialBudget returns the onboarding total, if one was stored.
func (g *Gateway) InitialBudget(ctx context.Context) (float64, bool) {
	b, err := g.store.Get(ctx, string(KeyInitialBudget))
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
