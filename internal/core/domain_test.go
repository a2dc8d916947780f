package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInvestmentDerivedValues(t *testing.T) {
	inv := NewInvestment("Acme", "ACM", 10, 5, 8, InvestmentStocks, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	if got := inv.TotalValue(); got != 80 {
		t.Errorf("TotalValue() = %v, want 80", got)
	}
	if got := inv.TotalInvested(); got != 50 {
		t.Errorf("TotalInvested() = %v, want 50", got)
	}
	if got := inv.Profit(); got != 30 {
		t.Errorf("Profit() = %v, want 30", got)
	}
	if got := inv.ProfitPercentage(); got != 60 {
		t.Errorf("ProfitPercentage() = %v, want 60", got)
	}
}

func TestInvestmentProfitPercentageZeroInvested(t *testing.T) {
	tests := []struct {
		name string
		inv  Investment
	}{
		{"zero quantity", Investment{Quantity: 0, PurchasePrice: 5, CurrentPrice: 8}},
		{"zero purchase price", Investment{Quantity: 3, PurchasePrice: 0, CurrentPrice: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.ProfitPercentage(); got != 0 {
				t.Errorf("ProfitPercentage() = %v, want 0", got)
			}
		})
	}
}

func TestSavingsGoalProgress(t *testing.T) {
	tests := []struct {
		name      string
		target    float64
		current   float64
		progress  float64
		completed bool
	}{
		{"quarter", 1000, 250, 25, false},
		{"exceeded is clamped", 1000, 1050, 100, true},
		{"exactly reached", 500, 500, 100, true},
		{"zero target", 0, 10, 0, true},
		{"nothing saved", 200, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := SavingsGoal{TargetAmount: tt.target, CurrentAmount: tt.current}
			if got := g.Progress(); got != tt.progress {
				t.Errorf("Progress() = %v, want %v", got, tt.progress)
			}
			if got := g.IsCompleted(); got != tt.completed {
				t.Errorf("IsCompleted() = %v, want %v", got, tt.completed)
			}
		})
	}
}

func TestSumDoesNotDrift(t *testing.T) {
	if got := Sum(0.1, 0.2); got != 0.3 {
		t.Fatalf("Sum(0.1, 0.2) = %v, want 0.3", got)
	}
	if got := Sum(); got != 0 {
		t.Fatalf("Sum() = %v, want 0", got)
	}
}

func TestExpenseJSONUsesLabels(t *testing.T) {
	e := Expense{
		ID:       uuid.MustParse("6f1c3c8e-0d8e-4b8a-9d55-1a3f7c2b9e01"),
		Title:    "Lunch",
		Amount:   12.5,
		Category: CategoryFood,
		Date:     time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"category":"Food"`, `"id":"6f1c3c8e-0d8e-4b8a-9d55-1a3f7c2b9e01"`, `"date":"2025-03-04T12:00:00Z"`, `"notes":""`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded expense %s missing %s", s, want)
		}
	}
}

func TestUnknownLabelFailsToDecode(t *testing.T) {
	var b Budget
	err := json.Unmarshal([]byte(`{"category":"Food","period":"Fortnightly","limit":10}`), &b)
	if err == nil {
		t.Fatal("expected error for unknown period")
	}

	var inv Investment
	if err := json.Unmarshal([]byte(`{"type":"Real Estate"}`), &inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Type != InvestmentRealEstate {
		t.Fatalf("type = %q, want %q", inv.Type, InvestmentRealEstate)
	}
}

func TestParseEnums(t *testing.T) {
	if c, err := ParseCategory("transportation"); err != nil || c != CategoryTransportation {
		t.Errorf("ParseCategory = %q, %v", c, err)
	}
	if _, err := ParseCategory("rent"); err == nil {
		t.Error("ParseCategory(rent) expected error")
	}

	periods := map[string]Period{"day": Daily, "Weekly": Weekly, "MONTH": Monthly, "yearly": Yearly}
	for in, want := range periods {
		if got, err := ParsePeriod(in); err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	types := map[string]InvestmentType{"crypto": InvestmentCrypto, "real-estate": InvestmentRealEstate, "bonds": InvestmentBonds}
	for in, want := range types {
		if got, err := ParseInvestmentType(in); err != nil || got != want {
			t.Errorf("ParseInvestmentType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	good := []interface{ Validate() error }{
		NewExpense("Coffee", 3, CategoryFood, now, ""),
		NewInvestment("Bond", "B1", 1, 100, 101, InvestmentBonds, now),
		NewBudget(CategoryHealth, 50, Monthly, 80),
		NewSavingsGoal("Bike", 400, now, "bicycle"),
	}
	for i, r := range good {
		if err := r.Validate(); err != nil {
			t.Errorf("case %d expected ok, got %v", i, err)
		}
	}

	bad := []interface{ Validate() error }{
		NewExpense("", 3, CategoryFood, now, ""),
		NewExpense("Refund", -3, CategoryFood, now, ""),
		NewExpense("Coffee", 3, Category("Rent"), now, ""),
		NewInvestment("Bond", "B1", -1, 100, 101, InvestmentBonds, now),
		NewBudget(CategoryHealth, 0, Monthly, 80),
		NewBudget(CategoryHealth, 10, Monthly, 120),
		NewSavingsGoal("Bike", 0, now, "bicycle"),
		NewExpense("Coffee", math.NaN(), CategoryFood, now, ""),
		NewInvestment("Big", "B", math.Inf(1), 1, 1, InvestmentStocks, now),
		NewBudget(CategoryHealth, math.Inf(1), Monthly, 80),
		NewBudget(CategoryHealth, 10, Monthly, math.NaN()),
		NewSavingsGoal("Bike", math.NaN(), now, "bicycle"),
	}
	for i, r := range bad {
		err := r.Validate()
		if err == nil {
			t.Errorf("case %d expected error", i)
			continue
		}
		if !IsValidationError(err) {
			t.Errorf("case %d expected ValidationError, got %T", i, err)
		}
	}

	err := NewExpense("", -1, CategoryFood, now, "").Validate()
	if !errors.Is(err, ErrEmptyTitle) || !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected both rules reported, got %v", err)
	}
}
