// Package report renders the vault state as a markdown dashboard.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	md "github.com/nao1215/markdown"

	"goldvault/internal/analytics"
	"goldvault/internal/core"
)

const recentLimit = 5

// Dashboard renders the overview screen: spending per period, this month's
// categories, recent expenses, budgets, investments and savings goals. The
// budget section also shows the monthly budget chosen during onboarding. All
// period figures are relative to now.
func Dashboard(s core.Snapshot, engine *analytics.Engine, now time.Time, currency string) string {
	if engine == nil {
		engine = analytics.New(nil)
	}
	money := func(v float64) string { return core.FormatMoney(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("GoldVault on %s", now.Format("Mon Jan 2, 2006")))

	doc.H2("Spending")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Period", "Total"},
		Rows: [][]string{
			{"Today", money(engine.TotalForPeriod(s.Expenses, core.Daily, now))},
			{"This week", money(engine.TotalForPeriod(s.Expenses, core.Weekly, now))},
			{"This month", money(engine.TotalForPeriod(s.Expenses, core.Monthly, now))},
		},
	})

	doc.H2("Spending by Category")
	byCategory := engine.ByCategory(s.Expenses, core.Monthly, now)
	if len(byCategory) == 0 {
		doc.PlainText("No expenses this month.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Category", "This month"},
		}
		for _, c := range core.Categories() {
			if total, ok := byCategory[c]; ok {
				table.Rows = append(table.Rows, []string{c.String(), money(total)})
			}
		}
		doc.Table(table)
	}

	if recent := engine.RecentExpenses(s.Expenses, recentLimit); len(recent) > 0 {
		doc.H2("Recent Expenses")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Date", "Title", "Category", "Amount"},
		}
		for _, e := range recent {
			table.Rows = append(table.Rows, []string{
				e.Date.Format(time.DateOnly), cell(e.Title), e.Category.String(), money(e.Amount),
			})
		}
		doc.Table(table)
	}

	onboardingBudget := s.Onboarded && s.InitialBudget > 0
	if len(s.Budgets) > 0 || onboardingBudget {
		doc.H2("Budgets")
		if onboardingBudget {
			doc.PlainText(fmt.Sprintf("Initial monthly budget: %s.", money(s.InitialBudget)))
		}
	}
	if len(s.Budgets) > 0 {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Category", "Period", "Spent", "Limit", "Usage", "Status"},
		}
		for _, st := range engine.BudgetStatuses(s.Budgets, s.Expenses, now) {
			table.Rows = append(table.Rows, []string{
				st.Budget.Category.String(),
				st.Budget.Period.String(),
				money(st.Spent),
				money(st.Budget.Limit),
				fmt.Sprintf("%.0f%%", st.Usage),
				budgetStatus(st),
			})
		}
		doc.Table(table)
	}

	if len(s.Investments) > 0 {
		doc.H2("Investments")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{md.Bold("Portfolio value"), md.Bold(money(engine.TotalInvestmentValue(s.Investments)))},
			Rows: [][]string{
				{"Invested", money(engine.TotalInvested(s.Investments))},
				{"Profit", money(engine.TotalInvestmentProfit(s.Investments))},
				{"Average ROI", fmt.Sprintf("%+.2f%%", engine.AverageROI(s.Investments))},
			},
		})

		holdings := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Symbol", "Type", "Value", "Profit", "Return"},
		}
		for _, inv := range s.Investments {
			holdings.Rows = append(holdings.Rows, []string{
				cell(inv.Symbol),
				inv.Type.String(),
				money(inv.TotalValue()),
				money(inv.Profit()),
				fmt.Sprintf("%+.2f%%", inv.ProfitPercentage()),
			})
		}
		doc.Table(holdings)
	}

	if len(s.SavingsGoals) > 0 {
		doc.H2("Savings Goals")
		summary := engine.SavingsProgress(s.SavingsGoals)
		doc.PlainText(fmt.Sprintf("%s saved of %s (%.0f%%), %d of %d goals completed.",
			money(summary.Saved), money(summary.Target), summary.Progress(), summary.Completed, summary.Goals))

		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Goal", "Saved", "Target", "Progress", "Deadline"},
		}
		for _, g := range s.SavingsGoals {
			table.Rows = append(table.Rows, []string{
				cell(g.Title),
				money(g.CurrentAmount),
				money(g.TargetAmount),
				fmt.Sprintf("%.0f%%", g.Progress()),
				g.Deadline.Format(time.DateOnly),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}

func budgetStatus(st analytics.BudgetStatus) string {
	switch {
	case st.Over:
		return md.Bold("over budget")
	case st.Alert:
		return "alert"
	default:
		return "ok"
	}
}

// cell escapes user text for a table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
