package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"goldvault/internal/core"
	"goldvault/internal/report"
)

type addExpenseCmd struct {
	title    string
	amount   float64
	category string
	date     string
	notes    string
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "record a new expense" }
func (*addExpenseCmd) Usage() string {
	return `add-expense -title <title> -amount <amount> [-category <category>] [-date <YYYY-MM-DD>] [-notes <text>]

  Records an expense. The category defaults to Other and the date to now.
  Categories: Food, Transportation, Entertainment, Shopping, Health, Utilities, Other.
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "Short description of the expense (required)")
	f.Float64Var(&c.amount, "amount", 0, "Amount spent")
	f.StringVar(&c.category, "category", string(core.CategoryOther), "Expense category")
	f.StringVar(&c.date, "date", "", "Day of the expense, defaults to now")
	f.StringVar(&c.notes, "notes", "", "Free text notes")
}

func (c *addExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.title == "" {
		fmt.Fprintln(os.Stderr, "Error: -title is required.")
		return subcommands.ExitUsageError
	}
	category, err := core.ParseCategory(c.category)
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

	date, err := parseDate(c.date, s.Vault.Now(), s.Location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	e, err := s.Vault.Expenses.Add(ctx, core.NewExpense(c.title, c.amount, category, date, c.notes))
	if status := reportMutation("expense", err); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Added expense %s: %s %s\n", e.ID, e.Title, core.FormatMoney(e.Amount, s.Config.Currency))
	return subcommands.ExitSuccess
}

type expensesCmd struct {
	period   string
	category string
	recent   int
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list expenses" }
func (*expensesCmd) Usage() string {
	return `expenses [-period <daily|weekly|monthly|yearly>] [-category <category>] [-recent <n>]

  Lists expenses in insertion order, or the n most recent ones with -recent.
  The numbers in the first column are the positions accepted by delete-expense
  when no filter is applied.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "Only show expenses in the current period")
	f.StringVar(&c.category, "category", "", "Only show expenses of this category")
	f.IntVar(&c.recent, "recent", 0, "Only show the n most recent expenses")
}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var period core.Period
	if c.period != "" {
		p, err := core.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		period = p
	}
	var category core.Category
	if c.category != "" {
		cat, err := core.ParseCategory(c.category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		category = cat
	}

	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	title := "Expenses"
	var expenses []core.Expense
	switch {
	case c.recent > 0:
		expenses = s.Vault.Expenses.Recent(c.recent)
		title = fmt.Sprintf("Recent Expenses (%d)", c.recent)
	case period != "":
		expenses = s.Vault.Expenses.InPeriod(period)
		title = fmt.Sprintf("Expenses (%s)", period)
	default:
		expenses = s.Vault.Expenses.Items()
	}
	if category != "" {
		kept := expenses[:0]
		for _, e := range expenses {
			if e.Category == category {
				kept = append(kept, e)
			}
		}
		expenses = kept
		title += " in " + category.String()
	}

	printMarkdown(report.ExpenseList(title, expenses, s.Config.Currency))
	return subcommands.ExitSuccess
}

type deleteExpenseCmd struct {
	id string
}

func (*deleteExpenseCmd) Name() string     { return "delete-expense" }
func (*deleteExpenseCmd) Synopsis() string { return "delete expenses by id or by position" }
func (*deleteExpenseCmd) Usage() string {
	return `delete-expense -id <id>
delete-expense <position>...

  Deletes the expense with the given id, or the expenses at the given
  1-based positions of the unfiltered expenses list. Positions refer to the
  list before any deletion; unknown positions are ignored.
`
}

func (c *deleteExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identity of the expense to delete")
}

func (c *deleteExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.id == "") == (f.NArg() == 0) {
		fmt.Fprintln(os.Stderr, "Error: either -id or a list of positions is required.")
		return subcommands.ExitUsageError
	}

	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	before := s.Vault.Expenses.Len()
	if c.id != "" {
		id, err := parseID(c.id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		err = s.Vault.Expenses.Delete(ctx, id)
		if status := reportMutation("expenses", err); status != subcommands.ExitSuccess {
			return status
		}
	} else {
		positions, err := parsePositions(f.Args())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		err = s.Vault.Expenses.DeleteAt(ctx, positions...)
		if status := reportMutation("expenses", err); status != subcommands.ExitSuccess {
			return status
		}
	}
	fmt.Fprintf(stdout, "Deleted %d expense(s)\n", before-s.Vault.Expenses.Len())
	return subcommands.ExitSuccess
}
