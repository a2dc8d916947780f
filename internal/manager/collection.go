// Package manager holds the authoritative in-memory collections of the vault.
//
// Each collection is owned by a single goroutine. Every accepted mutation is
// applied in memory first and then written through the persistence gateway as
// a full rewrite of the collection key; a failed write is reported to the
// caller but never rolls the memory state back.
package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"goldvault/internal/log"
	"goldvault/internal/persistence"
)

var ErrDuplicateID = errors.New("record id already present")

// Record is what a collection can hold.
type Record[T any] interface {
	RecordID() uuid.UUID
	WithRecordID(id uuid.UUID) T
	Validate() error
}

// Policy decides whether a record may enter the collection.
type Policy[T any] func(T) error

// AcceptAll admits every record unchanged.
func AcceptAll[T any](T) error { return nil }

// Strict admits only records passing their own Validate.
func Strict[T Record[T]](r T) error { return r.Validate() }

// Op names the mutation an Event reports.
type Op string

const (
	OpLoad    Op = "load"
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpReplace Op = "replace"
)

// Event is delivered to subscribers after every mutation and after Load.
// ID is the nil UUID for operations touching more than one record.
type Event struct {
	Collection persistence.Key
	Op         Op
	Len        int
	ID         uuid.UUID
}

// Option configures a Collection.
type Option[T Record[T]] func(*Collection[T])

// WithPolicy replaces the default AcceptAll policy.
func WithPolicy[T Record[T]](p Policy[T]) Option[T] {
	return func(c *Collection[T]) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger[T Record[T]](l *log.Logger) Option[T] {
	return func(c *Collection[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// StrictIf selects the Strict policy when strict is true.
func StrictIf[T Record[T]](strict bool) Option[T] {
	if !strict {
		return func(*Collection[T]) {}
	}
	return WithPolicy[T](Strict[T])
}

type subscription struct {
	id int
	fn func(Event)
}

// Collection is an ordered, persisted sequence of records of one type.
type Collection[T Record[T]] struct {
	key    persistence.Key
	gw     *persistence.Gateway
	policy Policy[T]
	logger *log.Logger

	items  []T
	subs   []subscription
	nextID int
}

// NewCollection returns an empty collection persisted under key. Call Load
// to pick up previously stored records.
func NewCollection[T Record[T]](gw *persistence.Gateway, key persistence.Key, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		key:    key,
		gw:     gw,
		policy: AcceptAll[T],
		logger: log.Discard(),
		items:  []T{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent(log.ComponentManager).With(log.FieldCollection, string(key))
	return c
}

// Key is the persistence key of the collection.
func (c *Collection[T]) Key() persistence.Key { return c.key }

// Load replaces the in-memory sequence with the persisted one. Anything that
// cannot be read yields an empty collection.
func (c *Collection[T]) Load(ctx context.Context) {
	res := persistence.Load[T](ctx, c.gw, c.key)
	switch {
	case res.OK():
		c.logger.DebugContext(ctx, "Loaded collection", log.FieldCount, len(res.Items))
	case errors.Is(res.Err, persistence.ErrNotFound):
		c.logger.DebugContext(ctx, "Nothing persisted yet")
	default:
		c.logger.WarnContext(ctx, "Persisted collection unreadable, starting empty",
			log.FieldOperation, log.OpLoad,
			log.FieldError, res.Err)
	}
	c.items = res.OrEmpty()
	c.notify(OpLoad, uuid.Nil)
}

// Items returns a copy of the current sequence.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int { return len(c.items) }

// Get returns the first record with id.
func (c *Collection[T]) Get(id uuid.UUID) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Add appends r, assigning a fresh identity when r has none, and persists.
// The returned record carries the identity actually stored.
func (c *Collection[T]) Add(ctx context.Context, r T) (T, error) {
	if r.RecordID() == uuid.Nil {
		r = r.WithRecordID(uuid.New())
	}
	if c.index(r.RecordID()) >= 0 {
		return r, fmt.Errorf("%w: %s", ErrDuplicateID, r.RecordID())
	}
	if err := c.policy(r); err != nil {
		return r, err
	}
	c.items = append(c.items, r)
	return r, c.commit(ctx, OpAdd, r.RecordID())
}

// Update replaces the first record sharing r's identity. An unknown identity
// is ignored and nothing is written.
func (c *Collection[T]) Update(ctx context.Context, r T) error {
	i := c.index(r.RecordID())
	if i < 0 {
		return nil
	}
	if err := c.policy(r); err != nil {
		return err
	}
	c.items[i] = r
	return c.commit(ctx, OpUpdate, r.RecordID())
}

// Delete removes every record with id. The collection is written even when
// nothing matched.
func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	kept := c.items[:0:0]
	for _, r := range c.items {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	c.items = kept
	return c.commit(ctx, OpDelete, id)
}

// DeleteAt removes the records at the given positions, all resolved against
// the sequence as it was before the call. Out of range and repeated positions
// are ignored.
func (c *Collection[T]) DeleteAt(ctx context.Context, positions ...int) error {
	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(c.items) {
			drop[p] = struct{}{}
		}
	}
	kept := make([]T, 0, len(c.items)-len(drop))
	for i, r := range c.items {
		if _, ok := drop[i]; !ok {
			kept = append(kept, r)
		}
	}
	c.items = kept
	return c.commit(ctx, OpDelete, uuid.Nil)
}

// Replace swaps in a whole new sequence. Records without identity get one.
// Nothing changes if any record is rejected by the policy or two records
// share an identity.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	next := make([]T, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, r := range items {
		if r.RecordID() == uuid.Nil {
			r = r.WithRecordID(uuid.New())
		}
		if _, dup := seen[r.RecordID()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.RecordID())
		}
		if err := c.policy(r); err != nil {
			return err
		}
		seen[r.RecordID()] = struct{}{}
		next = append(next, r)
	}
	c.items = next
	return c.commit(ctx, OpReplace, uuid.Nil)
}

// Subscribe registers fn for every subsequent Event. Events are delivered on
// the mutating goroutine, in registration order. The returned func removes
// the subscription.
func (c *Collection[T]) Subscribe(fn func(Event)) (cancel func()) {
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Collection[T]) commit(ctx context.Context, op Op, id uuid.UUID) error {
	err := persistence.Save(ctx, c.gw, c.key, c.items)
	c.notify(op, id)
	return err
}

func (c *Collection[T]) notify(op Op, id uuid.UUID) {
	ev := Event{Collection: c.key, Op: op, Len: len(c.items), ID: id}
	for _, s := range c.subs {
		s.fn(ev)
	}
}

func (c *Collection[T]) index(id uuid.UUID) int {
	for i, r := range c.items {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}
