// Package services wires the persistence gateway, the analytics engine and
// the collection managers into one Vault.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"goldvault/internal/amqp"
	"goldvault/internal/analytics"
	"goldvault/internal/core"
	"goldvault/internal/log"
	"goldvault/internal/manager"
	"goldvault/internal/onboarding"
	"goldvault/internal/persistence"
	"goldvault/internal/storage"
)

const opReset manager.Op = "reset"

// Publisher receives a message for every collection mutation.
type Publisher interface {
	PublishChange(ctx context.Context, msg amqp.ChangeMessage) error
	Close() error
}

type Options struct {
	Logger    *log.Logger
	Clock     func() time.Time
	Calendar  analytics.Calendar
	Strict    bool
	Publisher Publisher
}

// Vault owns the store and every manager built on it. Like the managers it
// is meant to be driven from a single goroutine.
type Vault struct {
	store     storage.Store
	gw        *persistence.Gateway
	engine    *analytics.Engine
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time

	Expenses     *manager.Expenses
	Investments  *manager.Investments
	Budgets      *manager.Budgets
	SavingsGoals *manager.SavingsGoals
	Onboarding   *onboarding.Service

	unsubscribe []func()
}

// NewVault builds a vault over store. Collections are empty until Load.
func NewVault(store storage.Store, opts Options) *Vault {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	gw := persistence.NewGateway(store, logger)
	engine := analytics.New(opts.Calendar)

	v := &Vault{
		store:     store,
		gw:        gw,
		engine:    engine,
		publisher: opts.Publisher,
		logger:    logger.WithComponent(log.ComponentApp),
		now:       now,
	}
	v.Expenses = manager.NewExpenses(gw, engine, now,
		manager.WithLogger[core.Expense](logger), manager.StrictIf[core.Expense](opts.Strict))
	v.Investments = manager.NewInvestments(gw, engine,
		manager.WithLogger[core.Investment](logger), manager.StrictIf[core.Investment](opts.Strict))
	v.Budgets = manager.NewBudgets(gw, engine, now,
		manager.WithLogger[core.Budget](logger), manager.StrictIf[core.Budget](opts.Strict))
	v.SavingsGoals = manager.NewSavingsGoals(gw,
		manager.WithLogger[core.SavingsGoal](logger), manager.StrictIf[core.SavingsGoal](opts.Strict))
	v.Onboarding = onboarding.NewService(gw, v.Budgets, v.SavingsGoals, now, logger)

	if v.publisher != nil {
		v.unsubscribe = []func(){
			v.Expenses.Subscribe(v.forward),
			v.Investments.Subscribe(v.forward),
			v.Budgets.Subscribe(v.forward),
			v.SavingsGoals.Subscribe(v.forward),
		}
	}
	return v
}

// Load reads the four collections concurrently. Each manager owns its own
// state, so the loads share nothing.
func (v *Vault) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range v.loaders() {
		g.Go(func() error {
			load(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	v.logger.DebugContext(ctx, "Vault loaded",
		"expenses", v.Expenses.Len(),
		"investments", v.Investments.Len(),
		"budgets", v.Budgets.Len(),
		"savings_goals", v.SavingsGoals.Len())
	return nil
}

func (v *Vault) loaders() []func(context.Context) {
	return []func(context.Context){
		v.Expenses.Load,
		v.Investments.Load,
		v.Budgets.Load,
		v.SavingsGoals.Load,
	}
}

// Reset deletes all persisted data, including the onboarding flags, and
// reloads the managers. The reload happens even when some removals failed,
// so memory reflects whatever is left on disk.
// A reset message is published for every collection.
func (v *Vault) Reset(ctx context.Context) error {
	clearErr := v.gw.ClearAll(ctx)
	for _, load := range v.loaders() {
		load(ctx)
	}
	if v.publisher != nil {
		for _, key := range []persistence.Key{v.Expenses.Key(), v.Investments.Key(), v.Budgets.Key(), v.SavingsGoals.Key()} {
			v.forward(manager.Event{Collection: key, Op: opReset})
		}
	}
	return clearErr
}

// Snapshot copies the current state of every collection.
func (v *Vault) Snapshot(ctx context.Context) core.Snapshot {
	initial, _ := v.gw.InitialBudget(ctx)
	return core.Snapshot{
		Expenses:      v.Expenses.Items(),
		Investments:   v.Investments.Items(),
		Budgets:       v.Budgets.Items(),
		SavingsGoals:  v.SavingsGoals.Items(),
		InitialBudget: initial,
		Onboarded:     v.gw.OnboardingCompleted(ctx),
	}
}

func (v *Vault) Engine() *analytics.Engine { return v.engine }

// Now is the vault clock.
func (v *Vault) Now() time.Time { return v.now() }

// Close stops forwarding events and releases the publisher and the store.
func (v *Vault) Close() error {
	for _, cancel := range v.unsubscribe {
		cancel()
	}
	v.unsubscribe = nil

	var errs []error
	if v.publisher != nil {
		if err := v.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := v.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// forward publishes a change message for every mutation. Load events are
// not changes and are skipped. Publish failures are logged only.
func (v *Vault) forward(ev manager.Event) {
	if ev.Op == manager.OpLoad {
		return
	}
	var recordID string
	if ev.ID != uuid.Nil {
		recordID = ev.ID.String()
	}
	msg := amqp.NewChangeMessage(string(ev.Collection), string(ev.Op), ev.Len, recordID)
	msg.Timestamp = v.now()

	ctx := context.Background()
	if err := v.publisher.PublishChange(ctx, msg); err != nil {
		fields := log.NewFields().
			WithOperation(log.OpPublish).
			WithCollection(msg.Collection, msg.Count).
			WithError(err)
		v.logger.WithFields(fields).WarnContext(ctx, "Failed to publish change message")
	}
}
