package manager

import (
	"context"

	"github.com/google/uuid"

	"goldvault/internal/core"
	"goldvault/internal/persistence"
)

type SavingsGoals struct {
	*Collection[core.SavingsGoal]
}

func NewSavingsGoals(gw *persistence.Gateway, opts ...Option[core.SavingsGoal]) *SavingsGoals {
	return &SavingsGoals{Collection: NewCollection[core.SavingsGoal](gw, persistence.KeySavingsGoals, opts...)}
}

// AddToGoal adds amount to the goal's saved amount. The result may exceed
// the target. Unknown ids are ignored.
func (m *SavingsGoals) AddToGoal(ctx context.Context, id uuid.UUID, amount float64) error {
	g, ok := m.Get(id)
	if !ok {
		return nil
	}
	g.CurrentAmount = core.Sum(g.CurrentAmount, amount)
	return m.Update(ctx, g)
}
