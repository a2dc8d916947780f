package export

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"goldvault/internal/core"
)

func TestWriteXLSX(t *testing.T) {
	day := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	expense := core.NewExpense("Groceries", 42.5, core.CategoryFood, day, "market")
	inv := core.NewInvestment("Acme", "ACM", 10, 5, 8, core.InvestmentStocks, day)
	budget := core.NewBudget(core.CategoryFood, 400, core.Monthly, 80)
	goal := core.NewSavingsGoal("Trip", 1000, day.AddDate(1, 0, 0), "airplane")
	goal.CurrentAmount = 250

	var buf bytes.Buffer
	err := WriteXLSX(&buf, core.Snapshot{
		Expenses:     []core.Expense{expense},
		Investments:  []core.Investment{inv},
		Budgets:      []core.Budget{budget},
		SavingsGoals: []core.SavingsGoal{goal},
	})
	if err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	want := []string{SheetExpenses, SheetInvestments, SheetBudgets, SheetSavingsGoals}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("GetSheetList() = %v, want %v", got, want)
	}

	tests := []struct {
		sheet, cell, want string
	}{
		{SheetExpenses, "A1", "ID"},
		{SheetExpenses, "A2", expense.ID.String()},
		{SheetExpenses, "B2", "2025-03-12"},
		{SheetExpenses, "D2", "Food"},
		{SheetExpenses, "E2", "42.5"},
		{SheetExpenses, "F2", "market"},
		{SheetInvestments, "D2", "Stocks"},
		{SheetInvestments, "I2", "80"},
		{SheetInvestments, "J2", "30"},
		{SheetInvestments, "K2", "60"},
		{SheetBudgets, "C2", "Monthly"},
		{SheetBudgets, "D2", "400"},
		{SheetSavingsGoals, "B2", "Trip"},
		{SheetSavingsGoals, "E2", "25"},
		{SheetSavingsGoals, "F2", "2026-03-12"},
	}
	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(tt.sheet, tt.cell)
			if err != nil {
				t.Fatalf("GetCellValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GetCellValue(%s, %s) = %q, want %q", tt.sheet, tt.cell, got, tt.want)
			}
		})
	}
}

func TestWriteXLSXEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, core.Snapshot{}); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			t.Fatalf("GetRows(%s) error = %v", name, err)
		}
		if len(rows) != 1 {
			t.Errorf("sheet %s: expected only the header row, got %d rows", name, len(rows))
		}
	}
}
