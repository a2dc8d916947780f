package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"goldvault/internal/core"
	"goldvault/internal/report"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addExpenseCmd{}, "expenses")
	c.Register(&expensesCmd{}, "expenses")
	c.Register(&deleteExpenseCmd{}, "expenses")

	c.Register(&addInvestmentCmd{}, "investments")
	c.Register(&investmentsCmd{}, "investments")
	c.Register(&setPriceCmd{}, "investments")

	c.Register(&addBudgetCmd{}, "budgets")
	c.Register(&budgetsCmd{}, "budgets")

	c.Register(&addGoalCmd{}, "goals")
	c.Register(&contributeCmd{}, "goals")
	c.Register(&goalsCmd{}, "goals")

	c.Register(&onboardCmd{}, "vault")
	c.Register(&reportCmd{}, "vault")
	c.Register(&exportCmd{}, "vault")
	c.Register(&resetCmd{}, "vault")
	c.Register(&watchCmd{}, "vault")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var plain = flag.Bool("plain", false, "Print raw markdown instead of styled terminal output")

var stdout io.Writer = os.Stdout

const dateLayout = "2006-01-02"

func printMarkdown(markdown string) {
	fmt.Fprint(stdout, report.Render(markdown, !*plain, 100))
}

// parseDate reads a YYYY-MM-DD date in loc. An empty string means now.
func parseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	// Noon keeps the day stable when displayed in a neighbouring zone.
	return d.Add(12 * time.Hour), nil
}

// parseCategories reads a comma separated list of category labels.
func parseCategories(s string) ([]core.Category, error) {
	var out []core.Category
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := core.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// parsePositions reads 1-based list positions and returns them 0-based.
func parsePositions(args []string) ([]int, error) {
	positions := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid position %q: must be a positive number", a)
		}
		positions = append(positions, n-1)
	}
	return positions, nil
}

func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, errors.New("-id is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// reportMutation prints err and picks the exit status for a mutation. A
// record that was kept in memory but not written still fails the command.
func reportMutation(what string, err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	if core.IsValidationError(err) {
		fmt.Fprintf(os.Stderr, "Error: %s rejected: %v\n", what, err)
		return subcommands.ExitUsageError
	}
	fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", what, err)
	return subcommands.ExitFailure
}
