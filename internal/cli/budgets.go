package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"goldvault/internal/core"
	"goldvault/internal/onboarding"
	"goldvault/internal/report"
)

type addBudgetCmd struct {
	category  string
	limit     float64
	period    string
	threshold float64
}

func (*addBudgetCmd) Name() string     { return "add-budget" }
func (*addBudgetCmd) Synopsis() string { return "set a spending limit for a category" }
func (*addBudgetCmd) Usage() string {
	return `add-budget -category <category> -limit <amount> [-period <period>] [-threshold <percent>]

  Adds a budget. Spending in the category during the current period is
  compared with the limit; an alert is raised once usage reaches the
  threshold percentage.
`
}

func (c *addBudgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Budgeted category (required)")
	f.Float64Var(&c.limit, "limit", 0, "Spending limit for the period")
	f.StringVar(&c.period, "period", string(core.Monthly), "Budget period")
	f.Float64Var(&c.threshold, "threshold", onboarding.DefaultAlertThreshold, "Alert threshold in percent of the limit")
}

func (c *addBudgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" {
		fmt.Fprintln(os.Stderr, "Error: -category is required.")
		return subcommands.ExitUsageError
	}
	category, err := core.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := core.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	b, err := s.Vault.Budgets.Add(ctx, core.NewBudget(category, c.limit, period, c.threshold))
	if status := reportMutation("budget", err); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Added %s budget %s: %s %s\n", b.Period, b.ID, b.Category, core.FormatMoney(b.Limit, s.Config.Currency))
	return subcommands.ExitSuccess
}

type budgetsCmd struct{}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "show budget usage" }
func (*budgetsCmd) Usage() string {
	return `budgets

  Evaluates every budget against the expenses of its current period.
`
}

func (*budgetsCmd) SetFlags(*flag.FlagSet) {}

func (c *budgetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	statuses := s.Vault.Budgets.Statuses(s.Vault.Expenses.Items())
	printMarkdown(report.BudgetList(statuses, s.Config.Currency))
	return subcommands.ExitSuccess
}
