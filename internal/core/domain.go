package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	Expense struct {
		ID       uuid.UUID `json:"id"`
		Title    string    `json:"title"`
		Amount   float64   `json:"amount"`
		Category Category  `json:"category"`
		Date     time.Time `json:"date"`
		Notes    string    `json:"notes"`
	}

	Investment struct {
		ID            uuid.UUID      `json:"id"`
		Name          string         `json:"name"`
		Symbol        string         `json:"symbol"`
		Quantity      float64        `json:"quantity"`
		PurchasePrice float64        `json:"purchasePrice"` // per unit
		CurrentPrice  float64        `json:"currentPrice"`  // per unit
		Type          InvestmentType `json:"type"`
		PurchaseDate  time.Time      `json:"purchaseDate"`
	}

	Budget struct {
		ID             uuid.UUID `json:"id"`
		Category       Category  `json:"category"`
		Limit          float64   `json:"limit"`
		Period         Period    `json:"period"`
		AlertThreshold float64   `json:"alertThreshold"` // percent of Limit, 0-100
	}

	SavingsGoal struct {
		ID            uuid.UUID `json:"id"`
		Title         string    `json:"title"`
		TargetAmount  float64   `json:"targetAmount"`
		CurrentAmount float64   `json:"currentAmount"` // may exceed TargetAmount
		Deadline      time.Time `json:"deadline"`
		Icon          string    `json:"icon"`
	}
)

// NewExpense returns an expense with a fresh identity.
func NewExpense(title string, amount float64, category Category, date time.Time, notes string) Expense {
	return Expense{
		ID:       uuid.New(),
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
		Notes:    notes,
	}
}

// NewInvestment returns an investment with a fresh identity.
func NewInvestment(name, symbol string, quantity, purchasePrice, currentPrice float64, typ InvestmentType, purchaseDate time.Time) Investment {
	return Investment{
		ID:            uuid.New(),
		Name:          name,
		Symbol:        symbol,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		CurrentPrice:  currentPrice,
		Type:          typ,
		PurchaseDate:  purchaseDate,
	}
}

// NewBudget returns a budget with a fresh identity.
func NewBudget(category Category, limit float64, period Period, alertThreshold float64) Budget {
	return Budget{
		ID:             uuid.New(),
		Category:       category,
		Limit:          limit,
		Period:         period,
		AlertThreshold: alertThreshold,
	}
}

// NewSavingsGoal returns a goal with a fresh identity and nothing saved yet.
func NewSavingsGoal(title string, target float64, deadline time.Time, icon string) SavingsGoal {
	return SavingsGoal{
		ID:           uuid.New(),
		Title:        title,
		TargetAmount: target,
		Deadline:     deadline,
		Icon:         icon,
	}
}

func (e Expense) RecordID() uuid.UUID     { return e.ID }
func (i Investment) RecordID() uuid.UUID  { return i.ID }
func (b Budget) RecordID() uuid.UUID      { return b.ID }
func (g SavingsGoal) RecordID() uuid.UUID { return g.ID }

func (e Expense) WithRecordID(id uuid.UUID) Expense         { e.ID = id; return e }
func (i Investment) WithRecordID(id uuid.UUID) Investment   { i.ID = id; return i }
func (b Budget) WithRecordID(id uuid.UUID) Budget           { b.ID = id; return b }
func (g SavingsGoal) WithRecordID(id uuid.UUID) SavingsGoal { g.ID = id; return g }

// TotalValue is Quantity × CurrentPrice.
func (i Investment) TotalValue() float64 { return Mul(i.Quantity, i.CurrentPrice) }

// TotalInvested is Quantity × PurchasePrice.
func (i Investment) TotalInvested() float64 { return Mul(i.Quantity, i.PurchasePrice) }

// Profit is TotalValue - TotalInvested; negative for a loss.
func (i Investment) Profit() float64 { return Sub(i.TotalValue(), i.TotalInvested()) }

// ProfitPercentage is Profit as a percentage of TotalInvested, 0 when nothing
// was invested.
func (i Investment) ProfitPercentage() float64 {
	return Percent(i.Profit(), i.TotalInvested())
}

// Progress is the saved share of the target in percent, capped at 100.
func (g SavingsGoal) Progress() float64 {
	return min(Percent(g.CurrentAmount, g.TargetAmount), 100)
}

// IsCompleted reports whether the saved amount reached the target.
func (g SavingsGoal) IsCompleted() bool {
	return g.CurrentAmount >= g.TargetAmount
}

// Remaining is what is still missing to reach the target, never negative.
func (g SavingsGoal) Remaining() float64 {
	return max(Sub(g.TargetAmount, g.CurrentAmount), 0)
}

// Validate applies the strict input rules. The managers only run it when the
// strict policy is selected.
func (e Expense) Validate() error {
	ve := &ValidationError{Record: "expense"}
	if strings.TrimSpace(e.Title) == "" {
		ve.add(ErrEmptyTitle)
	}
	if e.Amount < 0 || !finite(e.Amount) {
		ve.add(ErrInvalidAmount)
	}
	if !e.Category.IsValid() {
		ve.add(&enumError{"category", string(e.Category)})
	}
	if e.Date.IsZero() {
		ve.add(ErrInvalidDate)
	}
	return ve.orNil()
}

func (i Investment) Validate() error {
	ve := &ValidationError{Record: "investment"}
	if strings.TrimSpace(i.Name) == "" {
		ve.add(ErrEmptyTitle)
	}
	if i.Quantity < 0 || i.PurchasePrice < 0 || i.CurrentPrice < 0 || !finite(i.Quantity, i.PurchasePrice, i.CurrentPrice) {
		ve.add(ErrInvalidAmount)
	}
	if !i.Type.IsValid() {
		ve.add(&enumError{"investment type", string(i.Type)})
	}
	return ve.orNil()
}

func (b Budget) Validate() error {
	ve := &ValidationError{Record: "budget"}
	if b.Limit <= 0 || !finite(b.Limit) {
		ve.add(ErrInvalidAmount)
	}
	if !b.Category.IsValid() {
		ve.add(&enumError{"category", string(b.Category)})
	}
	if !b.Period.IsValid() {
		ve.add(&enumError{"period", string(b.Period)})
	}
	if !(b.AlertThreshold >= 0 && b.AlertThreshold <= 100) {
		ve.add(ErrInvalidPercent)
	}
	return ve.orNil()
}

func (g SavingsGoal) Validate() error {
	ve := &ValidationError{Record: "savings goal"}
	if strings.TrimSpace(g.Title) == "" {
		ve.add(ErrEmptyTitle)
	}
	if g.TargetAmount <= 0 || g.CurrentAmount < 0 || !finite(g.TargetAmount, g.CurrentAmount) {
		ve.add(ErrInvalidAmount)
	}
	return ve.orNil()
}

type enumError struct {
	field, value string
}

func (e *enumError) Error() string {
	return "unknown " + e.field + " " + `"` + e.value + `"`
}
