package manager

import (
	"time"

	"goldvault/internal/analytics"
	"goldvault/internal/core"
	"goldvault/internal/persistence"
)

// Clock returns the reference instant for period-relative queries.
type Clock func() time.Time

// Expenses manages the expense collection and answers the dashboard queries
// about it relative to the clock.
type Expenses struct {
	*Collection[core.Expense]
	engine *analytics.Engine
	now    Clock
}

func NewExpenses(gw *persistence.Gateway, engine *analytics.Engine, now Clock, opts ...Option[core.Expense]) *Expenses {
	return &Expenses{
		Collection: NewCollection[core.Expense](gw, persistence.KeyExpenses, opts...),
		engine:     orDefaultEngine(engine),
		now:        orDefaultClock(now),
	}
}

func (m *Expenses) TotalForPeriod(p core.Period) float64 {
	return m.engine.TotalForPeriod(m.items, p, m.now())
}

func (m *Expenses) ByCategory(p core.Period) map[core.Category]float64 {
	return m.engine.ByCategory(m.items, p, m.now())
}

// InPeriod lists the expenses of the current period in insertion order.
func (m *Expenses) InPeriod(p core.Period) []core.Expense {
	return m.engine.FilterByPeriod(m.items, p, m.now())
}

// Recent returns up to limit expenses, newest first.
func (m *Expenses) Recent(limit int) []core.Expense {
	return m.engine.RecentExpenses(m.items, limit)
}

func orDefaultEngine(e *analytics.Engine) *analytics.Engine {
	if e == nil {
		return analytics.New(nil)
	}
	return e
}

func orDefaultClock(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}
