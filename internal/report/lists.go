package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"goldvault/internal/analytics"
	"goldvault/internal/core"
)

// ExpenseList renders expenses as a numbered table followed by their total.
// Numbers are the 1-based positions accepted by delete-expense.
func ExpenseList(title string, expenses []core.Expense, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H2(title)
	if len(expenses) == 0 {
		return doc.PlainText("No expenses.").String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"#", "Date", "Title", "Category", "Amount", "ID"},
	}
	amounts := make([]float64, 0, len(expenses))
	for i, e := range expenses {
		amounts = append(amounts, e.Amount)
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			e.Date.Format(time.DateOnly),
			cell(e.Title),
			e.Category.String(),
			core.FormatMoney(e.Amount, currency),
			e.ID.String(),
		})
	}
	doc.Table(table)
	doc.PlainText(md.Bold("Total: " + core.FormatMoney(core.Sum(amounts...), currency)))
	return doc.String()
}

// InvestmentList renders every holding with its valuation.
func InvestmentList(investments []core.Investment, currency string) string {
	money := func(v float64) string { return core.FormatMoney(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H2("Investments")
	if len(investments) == 0 {
		return doc.PlainText("No investments.").String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Symbol", "Name", "Type", "Quantity", "Price", "Value", "Return", "ID"},
	}
	for _, inv := range investments {
		table.Rows = append(table.Rows, []string{
			cell(inv.Symbol),
			cell(inv.Name),
			inv.Type.String(),
			strconv.FormatFloat(inv.Quantity, 'f', -1, 64),
			money(inv.CurrentPrice),
			money(inv.TotalValue()),
			fmt.Sprintf("%+.2f%%", inv.ProfitPercentage()),
			inv.ID.String(),
		})
	}
	return doc.Table(table).String()
}

// BudgetList renders evaluated budgets.
func BudgetList(statuses []analytics.BudgetStatus, currency string) string {
	money := func(v float64) string { return core.FormatMoney(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H2("Budgets")
	if len(statuses) == 0 {
		return doc.PlainText("No budgets.").String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Category", "Period", "Spent", "Limit", "Remaining", "Usage", "Status", "ID"},
	}
	for _, st := range statuses {
		table.Rows = append(table.Rows, []string{
			st.Budget.Category.String(),
			st.Budget.Period.String(),
			money(st.Spent),
			money(st.Budget.Limit),
			money(st.Remaining),
			fmt.Sprintf("%.0f%%", st.Usage),
			budgetStatus(st),
			st.Budget.ID.String(),
		})
	}
	return doc.Table(table).String()
}

// GoalList renders savings goals with their progress.
func GoalList(goals []core.SavingsGoal, currency string) string {
	money := func(v float64) string { return core.FormatMoney(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf).H2("Savings Goals")
	if len(goals) == 0 {
		return doc.PlainText("No savings goals.").String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Goal", "Saved", "Target", "Progress", "Deadline", "ID"},
	}
	for _, g := range goals {
		progress := fmt.Sprintf("%.0f%%", g.Progress())
		if g.IsCompleted() {
			progress = md.Bold(progress)
		}
		table.Rows = append(table.Rows, []string{
			cell(g.Title),
			money(g.CurrentAmount),
			money(g.TargetAmount),
			progress,
			g.Deadline.Format(time.DateOnly),
			g.ID.String(),
		})
	}
	return doc.Table(table).String()
}
