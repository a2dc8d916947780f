package analytics

import (
	"time"

	"goldvault/internal/core"
)

// BudgetUsage is the share of budget.Limit spent in budget.Category during
// the budget period containing now, in percent and capped at 100. A limit of
// zero or less yields 0.
func (e *Engine) BudgetUsage(budget core.Budget, expenses []core.Expense, now time.Time) float64 {
	if budget.Limit <= 0 {
		return 0
	}
	return min(core.Percent(e.BudgetSpent(budget, expenses, now), budget.Limit), 100)
}

// BudgetSpent is the uncapped amount spent against the budget in now's period.
func (e *Engine) BudgetSpent(budget core.Budget, expenses []core.Expense, now time.Time) float64 {
	var amounts []float64
	for _, x := range e.FilterByPeriod(expenses, budget.Period, now) {
		if x.Category == budget.Category {
			amounts = append(amounts, x.Amount)
		}
	}
	return core.Sum(amounts...)
}

func (e *Engine) IsOverBudget(budget core.Budget, expenses []core.Expense, now time.Time) bool {
	return e.BudgetUsage(budget, expenses, now) >= 100
}

func (e *Engine) ShouldAlert(budget core.Budget, expenses []core.Expense, now time.Time) bool {
	return e.BudgetUsage(budget, expenses, now) >= budget.AlertThreshold
}

// BudgetStatus is a budget together with its evaluation at one instant.
type BudgetStatus struct {
	Budget    core.Budget
	Spent     float64
	Usage     float64
	Over      bool
	Alert     bool
	Remaining float64
}

// BudgetStatuses evaluates every budget against the same expenses and instant.
func (e *Engine) BudgetStatuses(budgets []core.Budget, expenses []core.Expense, now time.Time) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := e.BudgetSpent(b, expenses, now)
		usage := e.BudgetUsage(b, expenses, now)
		out = append(out, BudgetStatus{
			Budget:    b,
			Spent:     spent,
			Usage:     usage,
			Over:      usage >= 100,
			Alert:     usage >= b.AlertThreshold,
			Remaining: max(core.Sub(b.Limit, spent), 0),
		})
	}
	return out
}
