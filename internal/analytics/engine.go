// Package analytics derives totals, budget usage and investment performance
// from in-memory collections. Nothing here mutates its input or performs I/O;
// every time-relative query takes the reference instant explicitly.
package analytics

import (
	"sort"
	"time"

	"goldvault/internal/calendar"
	"goldvault/internal/core"
)

// Calendar is the granularity comparison the engine needs.
type Calendar interface {
	SameDay(a, b time.Time) bool
	SameWeek(a, b time.Time) bool
	SameMonth(a, b time.Time) bool
	SameYear(a, b time.Time) bool
}

// Engine computes analytics using one calendar.
type Engine struct {
	cal Calendar
}

// New returns an engine for cal; a nil cal uses calendar.Default().
func New(cal Calendar) *Engine {
	if cal == nil {
		cal = calendar.Default()
	}
	return &Engine{cal: cal}
}

// InPeriod reports whether t falls in the same period as now.
func (e *Engine) InPeriod(t time.Time, period core.Period, now time.Time) bool {
	match, ok := periodMatchers[period]
	if !ok {
		return false
	}
	return match(e.cal, t, now)
}

// FilterByPeriod keeps the expenses dated in the same period as now, in their
// original order. An unknown period matches nothing.
func (e *Engine) FilterByPeriod(expenses []core.Expense, period core.Period, now time.Time) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, x := range expenses {
		if e.InPeriod(x.Date, period, now) {
			out = append(out, x)
		}
	}
	return out
}

// TotalForPeriod sums the amounts of the expenses in now's period.
func (e *Engine) TotalForPeriod(expenses []core.Expense, period core.Period, now time.Time) float64 {
	return sumAmounts(e.FilterByPeriod(expenses, period, now))
}

// ByCategory sums the amounts per category over now's period. Categories
// without expenses are absent from the result.
func (e *Engine) ByCategory(expenses []core.Expense, period core.Period, now time.Time) map[core.Category]float64 {
	grouped := make(map[core.Category][]float64)
	for _, x := range e.FilterByPeriod(expenses, period, now) {
		grouped[x.Category] = append(grouped[x.Category], x.Amount)
	}
	out := make(map[core.Category]float64, len(grouped))
	for c, amounts := range grouped {
		out[c] = core.Sum(amounts...)
	}
	return out
}

// RecentExpenses returns up to limit expenses, newest first. Expenses on the
// same instant keep their insertion order.
func (e *Engine) RecentExpenses(expenses []core.Expense, limit int) []core.Expense {
	sorted := append([]core.Expense(nil), expenses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

func sumAmounts(expenses []core.Expense) float64 {
	amounts := make([]float64, len(expenses))
	for i, x := range expenses {
		amounts[i] = x.Amount
	}
	return core.Sum(amounts...)
}
