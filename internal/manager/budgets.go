package manager

import (
	"goldvault/internal/analytics"
	"goldvault/internal/core"
	"goldvault/internal/persistence"
)

// Budgets manages spending limits. Usage is evaluated against an expense
// list supplied by the caller, at the clock's current instant.
type Budgets struct {
	*Collection[core.Budget]
	engine *analytics.Engine
	now    Clock
}

func NewBudgets(gw *persistence.Gateway, engine *analytics.Engine, now Clock, opts ...Option[core.Budget]) *Budgets {
	return &Budgets{
		Collection: NewCollection[core.Budget](gw, persistence.KeyBudgets, opts...),
		engine:     orDefaultEngine(engine),
		now:        orDefaultClock(now),
	}
}

func (m *Budgets) Usage(b core.Budget, expenses []core.Expense) float64 {
	return m.engine.BudgetUsage(b, expenses, m.now())
}

func (m *Budgets) IsOverBudget(b core.Budget, expenses []core.Expense) bool {
	return m.engine.IsOverBudget(b, expenses, m.now())
}

func (m *Budgets) ShouldAlert(b core.Budget, expenses []core.Expense) bool {
	return m.engine.ShouldAlert(b, expenses, m.now())
}

// Statuses evaluates every budget in collection order.
func (m *Budgets) Statuses(expenses []core.Expense) []analytics.BudgetStatus {
	return m.engine.BudgetStatuses(m.items, expenses, m.now())
}
