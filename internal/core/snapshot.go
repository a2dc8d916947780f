package core

// Snapshot is a point-in-time copy of every collection, used by read-only
// consumers such as reports and exports.
type Snapshot struct {
	Expenses      []Expense
	Investments   []Investment
	Budgets       []Budget
	SavingsGoals  []SavingsGoal
	InitialBudget float64
	Onboarded     bool
}
