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

type addGoalCmd struct {
	title    string
	target   float64
	current  float64
	deadline string
	icon     string
}

func (*addGoalCmd) Name() string     { return "add-goal" }
func (*addGoalCmd) Synopsis() string { return "create a savings goal" }
func (*addGoalCmd) Usage() string {
	return `add-goal -title <title> -target <amount> [-saved <amount>] [-deadline <YYYY-MM-DD>] [-icon <name>]

  Creates a savings goal. The deadline defaults to one year from now.
`
}

func (c *addGoalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "Goal title (required)")
	f.Float64Var(&c.target, "target", 0, "Amount to save")
	f.Float64Var(&c.current, "saved", 0, "Amount already saved")
	f.StringVar(&c.deadline, "deadline", "", "Target day, defaults to one year from now")
	f.StringVar(&c.icon, "icon", onboarding.DefaultGoalIcon, "Icon name")
}

func (c *addGoalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.title == "" {
		fmt.Fprintln(os.Stderr, "Error: -title is required.")
		return subcommands.ExitUsageError
	}

	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	deadline, err := parseDate(c.deadline, s.Vault.Now().AddDate(1, 0, 0), s.Location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	goal := core.NewSavingsGoal(c.title, c.target, deadline, c.icon)
	goal.CurrentAmount = c.current
	goal, err = s.Vault.SavingsGoals.Add(ctx, goal)
	if status := reportMutation("savings goal", err); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Added savings goal %s: %s (%.0f%%)\n", goal.ID, goal.Title, goal.Progress())
	return subcommands.ExitSuccess
}

type contributeCmd struct {
	id     string
	amount float64
}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "add money to a savings goal" }
func (*contributeCmd) Usage() string {
	return `contribute -id <id> -amount <amount>

  Adds the amount to the goal's saved total. Saving past the target is
  allowed. An unknown id changes nothing.
`
}

func (c *contributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identity of the goal (required)")
	f.Float64Var(&c.amount, "amount", 0, "Amount to add")
}

func (c *contributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseID(c.id)
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

	if _, ok := s.Vault.SavingsGoals.Get(id); !ok {
		fmt.Fprintf(os.Stderr, "Warning: no savings goal with id %s\n", id)
		return subcommands.ExitSuccess
	}
	if status := reportMutation("savings goal", s.Vault.SavingsGoals.AddToGoal(ctx, id, c.amount)); status != subcommands.ExitSuccess {
		return status
	}
	goal, _ := s.Vault.SavingsGoals.Get(id)
	fmt.Fprintf(stdout, "%s: %s of %s (%.0f%%)\n", goal.Title,
		core.FormatMoney(goal.CurrentAmount, s.Config.Currency),
		core.FormatMoney(goal.TargetAmount, s.Config.Currency),
		goal.Progress())
	if goal.IsCompleted() {
		fmt.Fprintln(stdout, "Goal reached!")
	}
	return subcommands.ExitSuccess
}

type goalsCmd struct{}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "list savings goals" }
func (*goalsCmd) Usage() string {
	return `goals

  Lists savings goals with their progress.
`
}

func (*goalsCmd) SetFlags(*flag.FlagSet) {}

func (c *goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	printMarkdown(report.GoalList(s.Vault.SavingsGoals.Items(), s.Config.Currency))
	return subcommands.ExitSuccess
}
