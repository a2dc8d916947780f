package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"goldvault/internal/amqp"
	"goldvault/internal/calendar"
	"goldvault/internal/core"
	"goldvault/internal/onboarding"
	"goldvault/internal/persistence"
	"goldvault/internal/storage/memory"
)

var now = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	messages []amqp.ChangeMessage
	fail     bool
	closed   bool
}

func (p *recordingPublisher) PublishChange(_ context.Context, msg amqp.ChangeMessage) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

type closeFailingStore struct {
	*memory.Store
}

func (closeFailingStore) Close() error { return errors.New("close failed") }

func newVault(t *testing.T, pub Publisher) (*Vault, *memory.Store) {
	t.Helper()
	store := memory.New()
	v := NewVault(store, Options{
		Clock:     func() time.Time { return now },
		Calendar:  calendar.Calendar{Location: time.UTC, FirstWeekday: time.Sunday},
		Publisher: pub,
	})
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return v, store
}

func TestVaultLoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	v, store := newVault(t, nil)

	if _, err := v.Expenses.Add(ctx, core.NewExpense("Lunch", 12, core.CategoryFood, now, "")); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Investments.Add(ctx, core.NewInvestment("Acme", "ACM", 10, 5, 8, core.InvestmentStocks, now)); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Budgets.Add(ctx, core.NewBudget(core.CategoryFood, 100, core.Monthly, 80)); err != nil {
		t.Fatal(err)
	}
	if _, err := v.SavingsGoals.Add(ctx, core.NewSavingsGoal("Trip", 500, now.AddDate(0, 6, 0), "airplane")); err != nil {
		t.Fatal(err)
	}

	reopened := NewVault(store, Options{Clock: func() time.Time { return now }})
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reopened.Expenses.Len() != 1 || reopened.Investments.Len() != 1 || reopened.Budgets.Len() != 1 || reopened.SavingsGoals.Len() != 1 {
		t.Errorf("unexpected snapshot after reload: %+v", reopened.Snapshot(ctx))
	}
	if got := reopened.Investments.TotalProfit(); got != 30 {
		t.Errorf("TotalProfit() = %v, want 30", got)
	}
}

func TestVaultLoadSurvivesCorruptCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	_ = store.Set(ctx, string(persistence.KeyBudgets), []byte("not json"))
	_ = store.Set(ctx, string(persistence.KeyExpenses), []byte(`[{"title":"ok","amount":3,"category":"Food","date":"2025-03-12T10:00:00Z"}]`))

	v := NewVault(store, Options{})
	if err := v.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.Budgets.Len() != 0 {
		t.Errorf("corrupt budgets should load empty, got %d", v.Budgets.Len())
	}
	if v.Expenses.Len() != 1 {
		t.Errorf("expenses should load, got %d", v.Expenses.Len())
	}
}

func TestVaultReset(t *testing.T) {
	ctx := context.Background()
	v, store := newVault(t, nil)

	if _, err := v.Onboarding.Complete(ctx, onboarding.Input{
		InitialBudget: 1000,
		Categories:    []core.Category{core.CategoryFood},
		GoalTitle:     "Fund",
		GoalAmount:    200,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Expenses.Add(ctx, core.NewExpense("x", 1, core.CategoryFood, now, "")); err != nil {
		t.Fatal(err)
	}

	snap := v.Snapshot(ctx)
	if !snap.Onboarded || snap.InitialBudget != 1000 || len(snap.Budgets) != 1 || len(snap.SavingsGoals) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if err := v.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	snap = v.Snapshot(ctx)
	if snap.Onboarded || snap.InitialBudget != 0 || len(snap.Expenses)+len(snap.Budgets)+len(snap.SavingsGoals)+len(snap.Investments) != 0 {
		t.Errorf("reset left data behind: %+v", snap)
	}
	if keys, _ := store.Keys(ctx); len(keys) != 0 {
		t.Errorf("store still holds %v", keys)
	}
}

func TestVaultForwardsChanges(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	v, _ := newVault(t, pub)

	if len(pub.messages) != 0 {
		t.Fatalf("load must not publish, got %v", pub.messages)
	}

	e, err := v.Expenses.Add(ctx, core.NewExpense("Lunch", 12, core.CategoryFood, now, ""))
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Expenses.Delete(ctx, e.ID); err != nil {
		t.Fatal(err)
	}

	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pub.messages))
	}
	add := pub.messages[0]
	if add.Collection != "expenses" || add.Operation != "add" || add.Count != 1 || add.RecordID != e.ID.String() || !add.Timestamp.Equal(now) {
		t.Errorf("unexpected add message %+v", add)
	}
	if del := pub.messages[1]; del.Operation != "delete" || del.Count != 0 {
		t.Errorf("unexpected delete message %+v", del)
	}
}

func TestVaultResetPublishesPerCollection(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	v, _ := newVault(t, pub)

	if err := v.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	var got []string
	for _, m := range pub.messages {
		if m.Operation != "reset" || m.Count != 0 || m.RecordID != "" {
			t.Errorf("unexpected reset message %+v", m)
		}
		got = append(got, m.Collection)
	}
	want := []string{"expenses", "investments", "budgets", "savingsGoals"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("reset messages for %v, want %v", got, want)
	}
}

func TestVaultPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{fail: true}
	v, _ := newVault(t, pub)

	if _, err := v.Budgets.Add(ctx, core.NewBudget(core.CategoryHealth, 50, core.Weekly, 80)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if v.Budgets.Len() != 1 {
		t.Error("budget should be stored")
	}
}

func TestVaultStrictOption(t *testing.T) {
	ctx := context.Background()
	v := NewVault(memory.New(), Options{Strict: true})
	if _, err := v.Budgets.Add(ctx, core.NewBudget(core.CategoryFood, -10, core.Monthly, 80)); !core.IsValidationError(err) {
		t.Errorf("Add() error = %v, want validation error", err)
	}
}

func TestVaultClose(t *testing.T) {
	pub := &recordingPublisher{}
	v := NewVault(closeFailingStore{memory.New()}, Options{Publisher: pub})

	err := v.Close()
	if err == nil || err.Error() != "close failed" {
		t.Errorf("Close() error = %v", err)
	}
	if !pub.closed {
		t.Error("publisher not closed")
	}

	if _, err := v.Expenses.Add(context.Background(), core.NewExpense("late", 1, core.CategoryOther, now, "")); err != nil {
		t.Fatal(err)
	}
	if len(pub.messages) != 0 {
		t.Error("closed vault must stop forwarding")
	}
}
