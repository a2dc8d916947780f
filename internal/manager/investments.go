package manager

import (
	"context"

	"github.com/google/uuid"

	"goldvault/internal/analytics"
	"goldvault/internal/core"
	"goldvault/internal/persistence"
)

type Investments struct {
	*Collection[core.Investment]
	engine *analytics.Engine
}

func NewInvestments(gw *persistence.Gateway, engine *analytics.Engine, opts ...Option[core.Investment]) *Investments {
	return &Investments{
		Collection: NewCollection[core.Investment](gw, persistence.KeyInvestments, opts...),
		engine:     orDefaultEngine(engine),
	}
}

func (m *Investments) TotalValue() float64    { return m.engine.TotalInvestmentValue(m.items) }
func (m *Investments) TotalInvested() float64 { return m.engine.TotalInvested(m.items) }
func (m *Investments) TotalProfit() float64   { return m.engine.TotalInvestmentProfit(m.items) }
func (m *Investments) AverageROI() float64    { return m.engine.AverageROI(m.items) }

func (m *Investments) ByType() map[core.InvestmentType]float64 {
	return m.engine.ByInvestmentType(m.items)
}

// SetPrice records a new per-unit market price. Unknown ids are ignored.
func (m *Investments) SetPrice(ctx context.Context, id uuid.UUID, price float64) error {
	inv, ok := m.Get(id)
	if !ok {
		return nil
	}
	inv.CurrentPrice = price
	return m.Update(ctx, inv)
}
