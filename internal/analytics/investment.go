package analytics

import "goldvault/internal/core"

// TotalInvestmentValue sums Quantity × CurrentPrice over all investments.
func (e *Engine) TotalInvestmentValue(investments []core.Investment) float64 {
	return sumOf(investments, core.Investment.TotalValue)
}

// TotalInvested sums Quantity × PurchasePrice over all investments.
func (e *Engine) TotalInvested(investments []core.Investment) float64 {
	return sumOf(investments, core.Investment.TotalInvested)
}

// TotalInvestmentProfit sums the profit of every investment.
func (e *Engine) TotalInvestmentProfit(investments []core.Investment) float64 {
	return sumOf(investments, core.Investment.Profit)
}

// AverageROI is the arithmetic mean of each investment's profit percentage,
// 0 for an empty portfolio.
func (e *Engine) AverageROI(investments []core.Investment) float64 {
	return core.Mean(valuesOf(investments, core.Investment.ProfitPercentage)...)
}

// ByInvestmentType sums current value per investment type.
func (e *Engine) ByInvestmentType(investments []core.Investment) map[core.InvestmentType]float64 {
	grouped := make(map[core.InvestmentType][]float64)
	for _, inv := range investments {
		grouped[inv.Type] = append(grouped[inv.Type], inv.TotalValue())
	}
	out := make(map[core.InvestmentType]float64, len(grouped))
	for t, values := range grouped {
		out[t] = core.Sum(values...)
	}
	return out
}

// SavingsSummary aggregates savings goals.
type SavingsSummary struct {
	Saved     float64
	Target    float64
	Completed int
	Goals     int
}

// Progress is Saved as a percentage of Target, capped at 100.
func (s SavingsSummary) Progress() float64 {
	return min(core.Percent(s.Saved, s.Target), 100)
}

func (e *Engine) SavingsProgress(goals []core.SavingsGoal) SavingsSummary {
	s := SavingsSummary{Goals: len(goals)}
	saved := make([]float64, 0, len(goals))
	target := make([]float64, 0, len(goals))
	for _, g := range goals {
		saved = append(saved, g.CurrentAmount)
		target = append(target, g.TargetAmount)
		if g.IsCompleted() {
			s.Completed++
		}
	}
	s.Saved = core.Sum(saved...)
	s.Target = core.Sum(target...)
	return s
}

func sumOf[T any](xs []T, value func(T) float64) float64 {
	return core.Sum(valuesOf(xs, value)...)
}

func valuesOf[T any](xs []T, value func(T) float64) []float64 {
	values := make([]float64, len(xs))
	for i, x := range xs {
		values[i] = value(x)
	}
	return values
}
