package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"

	"goldvault/internal/amqp"
	"goldvault/internal/cache"
	"goldvault/internal/core"
	"goldvault/internal/export"
	"goldvault/internal/log"
	"goldvault/internal/onboarding"
	"goldvault/internal/persistence"
	"goldvault/internal/report"
	"goldvault/internal/storage"
	"goldvault/internal/worker"
)

type onboardCmd struct {
	budget     float64
	categories string
	goalTitle  string
	goalAmount float64
	force      bool
}

func (*onboardCmd) Name() string     { return "onboard" }
func (*onboardCmd) Synopsis() string { return "first-run setup of budgets and a savings goal" }
func (*onboardCmd) Usage() string {
	return `onboard -budget <amount> -categories <c1,c2,...> [-goal <title> -goal-amount <amount>] [-force]

  Splits the monthly budget evenly over the selected categories, replacing
  any existing budgets, and optionally creates a first savings goal due in a
  year. Refuses to run twice unless -force is given.
`
}

func (c *onboardCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.budget, "budget", 0, "Total monthly budget (required)")
	f.StringVar(&c.categories, "categories", "", "Comma separated categories to budget")
	f.StringVar(&c.goalTitle, "goal", "", "Title of a first savings goal")
	f.Float64Var(&c.goalAmount, "goal-amount", 0, "Target of the first savings goal")
	f.BoolVar(&c.force, "force", false, "Run even if onboarding was already completed")
}

func (c *onboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	categories, err := parseCategories(c.categories)
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

	if s.Vault.Onboarding.Completed(ctx) && !c.force {
		fmt.Fprintln(os.Stderr, "Error: onboarding already completed, use -force to run it again.")
		return subcommands.ExitFailure
	}

	res, err := s.Vault.Onboarding.Complete(ctx, onboarding.Input{
		InitialBudget: c.budget,
		Categories:    categories,
		GoalTitle:     c.goalTitle,
		GoalAmount:    c.goalAmount,
	})
	if errors.Is(err, onboarding.ErrInvalidBudget) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error completing onboarding: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, b := range res.Budgets {
		fmt.Fprintf(stdout, "Budget %s: %s per month\n", b.Category, core.FormatMoney(b.Limit, s.Config.Currency))
	}
	if res.Goal != nil {
		fmt.Fprintf(stdout, "Savings goal %s: %s by %s\n", res.Goal.Title,
			core.FormatMoney(res.Goal.TargetAmount, s.Config.Currency),
			res.Goal.Deadline.Format(dateLayout))
	}
	return subcommands.ExitSuccess
}

type reportCmd struct{}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the vault dashboard" }
func (*reportCmd) Usage() string {
	return `report

  Displays spending for today, this week and this month, this month's
  categories, recent expenses, budgets, investments and savings goals.
`
}

func (*reportCmd) SetFlags(*flag.FlagSet) {}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if !s.Vault.Onboarding.Completed(ctx) {
		fmt.Fprintln(os.Stderr, "Hint: run 'goldvault onboard' to set up budgets.")
	}
	printMarkdown(report.Dashboard(s.Vault.Snapshot(ctx), s.Vault.Engine(), s.Vault.Now(), s.Config.Currency))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the vault to an Excel workbook" }
func (*exportCmd) Usage() string {
	return `export [-o <file.xlsx>]

  Writes one sheet per collection: Expenses, Investments, Budgets and
  Savings Goals.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "goldvault.xlsx", "Output file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if dir := filepath.Dir(c.output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", dir, err)
			return subcommands.ExitFailure
		}
	}
	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}

	snap := s.Vault.Snapshot(ctx)
	if err := export.WriteXLSX(out, snap); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error writing workbook: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing workbook: %v\n", err)
		return subcommands.ExitFailure
	}

	s.Logger.Debug("Exported vault", log.FieldOperation, log.OpExport, "file", c.output)
	fmt.Fprintf(stdout, "Exported %d expenses, %d investments, %d budgets and %d savings goals to %s\n",
		len(snap.Expenses), len(snap.Investments), len(snap.Budgets), len(snap.SavingsGoals), c.output)
	return subcommands.ExitSuccess
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete all vault data" }
func (*resetCmd) Usage() string {
	return `reset -yes

  Deletes every expense, investment, budget and savings goal together with
  the onboarding state. This cannot be undone.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Error: reset deletes all data, pass -yes to confirm.")
		return subcommands.ExitUsageError
	}

	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.Vault.Reset(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting data: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, "All data deleted.")
	return subcommands.ExitSuccess
}

type watchCmd struct {
	mirror   string
	cacheTTL time.Duration
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "follow change notifications from the broker" }
func (*watchCmd) Usage() string {
	return `watch [-mirror <file.xlsx>] [-cache-ttl <duration>]

  Prints every change message published to AMQP_QUEUE until interrupted,
  reloading the vault each time. With -mirror the workbook is rewritten
  after every change, so it always reflects the vault. Requires AMQP_URL.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mirror, "mirror", "", "Workbook kept in sync with the vault")
	f.DurationVar(&c.cacheTTL, "cache-ttl", 10*time.Minute, "How long unchanged collections are served from memory")
}

func (c *watchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !cfg.AMQPEnabled() {
		fmt.Fprintln(os.Stderr, "Error: AMQP_URL is not set.")
		return subcommands.ExitUsageError
	}
	logger := SetupLogger(cfg.LogLevel)

	// The watcher only reads, so its vault does not publish.
	vaultCfg := *cfg
	vaultCfg.AMQPURL = ""
	var cached *cache.Store
	v, err := OpenVault(context.Background(), &vaultCfg, logger, func(s storage.Store) storage.Store {
		cached = cache.NewStore(s, cache.NewLRUCache[[]byte](len(persistence.AllKeys()), c.cacheTTL))
		return cached
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer v.Close()

	janitor := cache.NewManager(logger)
	janitor.Register(cached)
	janitor.StartCleanup(time.Minute)
	defer janitor.Stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to broker: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, done := GracefulShutdown(logger, 10*time.Second, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close broker connection", log.FieldError, err)
		}
	})

	w := worker.NewMirrorWorker(v, cached, c.mirror, stdout, logger)
	if err := w.StartupSync(ctx); err != nil {
		logger.Warn("Initial mirror failed", log.FieldError, err)
	}

	logger.Info("Watching vault changes", log.FieldQueue, cfg.AMQPQueue)
	err = client.ConsumeChanges(ctx, func(msg amqp.ChangeMessage) error {
		return w.HandleChange(ctx, msg)
	})
	if ctx.Err() != nil {
		<-done
		return subcommands.ExitSuccess
	}
	client.Close()
	fmt.Fprintf(os.Stderr, "Error consuming changes: %v\n", err)
	return subcommands.ExitFailure
}
