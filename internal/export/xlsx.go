// Package export writes the vault collections to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"goldvault/internal/core"
)

const (
	SheetExpenses     = "Expenses"
	SheetInvestments  = "Investments"
	SheetBudgets      = "Budgets"
	SheetSavingsGoals = "Savings Goals"

	dateFormat = "2006-01-02"
)

type sheet struct {
	name   string
	header []string
	widths []float64
	rows   [][]any
}

// WriteXLSX writes one sheet per collection, each with a header row, in
// collection order.
func WriteXLSX(w io.Writer, s core.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []sheet{
		expenseSheet(s.Expenses),
		investmentSheet(s.Investments),
		budgetSheet(s.Budgets),
		goalSheet(s.SavingsGoals),
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		index, err := f.NewSheet(sh.name)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return fmt.Errorf("write sheet %s: %w", sh.name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	header := make([]any, len(sh.header))
	for i, h := range sh.header {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sh.name, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}
	for i, width := range sh.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func expenseSheet(expenses []core.Expense) sheet {
	sh := sheet{
		name:   SheetExpenses,
		header: []string{"ID", "Date", "Title", "Category", "Amount", "Notes"},
		widths: []float64{38, 12, 30, 16, 12, 40},
	}
	for _, e := range expenses {
		sh.rows = append(sh.rows, []any{
			e.ID.String(), e.Date.Format(dateFormat), e.Title, e.Category.String(), e.Amount, e.Notes,
		})
	}
	return sh
}

func investmentSheet(investments []core.Investment) sheet {
	sh := sheet{
		name: SheetInvestments,
		header: []string{
			"ID", "Name", "Symbol", "Type", "Quantity", "Purchase Price", "Current Price",
			"Purchase Date", "Total Value", "Profit", "Return %",
		},
		widths: []float64{38, 24, 10, 16, 10, 14, 14, 14, 14, 12, 10},
	}
	for _, inv := range investments {
		sh.rows = append(sh.rows, []any{
			inv.ID.String(), inv.Name, inv.Symbol, inv.Type.String(), inv.Quantity,
			inv.PurchasePrice, inv.CurrentPrice, inv.PurchaseDate.Format(dateFormat),
			inv.TotalValue(), inv.Profit(), inv.ProfitPercentage(),
		})
	}
	return sh
}

func budgetSheet(budgets []core.Budget) sheet {
	sh := sheet{
		name:   SheetBudgets,
		header: []string{"ID", "Category", "Period", "Limit", "Alert Threshold %"},
		widths: []float64{38, 16, 10, 12, 18},
	}
	for _, b := range budgets {
		sh.rows = append(sh.rows, []any{
			b.ID.String(), b.Category.String(), b.Period.String(), b.Limit, b.AlertThreshold,
		})
	}
	return sh
}

func goalSheet(goals []core.SavingsGoal) sheet {
	sh := sheet{
		name:   SheetSavingsGoals,
		header: []string{"ID", "Title", "Target", "Saved", "Progress %", "Deadline", "Icon"},
		widths: []float64{38, 30, 12, 12, 12, 12, 12},
	}
	for _, g := range goals {
		sh.rows = append(sh.rows, []any{
			g.ID.String(), g.Title, g.TargetAmount, g.CurrentAmount, g.Progress(),
			g.Deadline.Format(dateFormat), g.Icon,
		})
	}
	return sh
}
