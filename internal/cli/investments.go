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

type addInvestmentCmd struct {
	name          string
	symbol        string
	typ           string
	quantity      float64
	purchasePrice float64
	currentPrice  float64
	date          string
}

func (*addInvestmentCmd) Name() string     { return "add-investment" }
func (*addInvestmentCmd) Synopsis() string { return "record a new holding" }
func (*addInvestmentCmd) Usage() string {
	return `add-investment -name <name> -symbol <symbol> -quantity <q> -price <unit price> [-current <unit price>] [-type <type>] [-date <YYYY-MM-DD>]

  Records a holding bought at -price per unit. The current price defaults to
  the purchase price.
  Types: Stocks, Cryptocurrency (crypto), Bonds, Real Estate (real-estate), Other.
`
}

func (c *addInvestmentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the holding (required)")
	f.StringVar(&c.symbol, "symbol", "", "Ticker or short symbol")
	f.StringVar(&c.typ, "type", string(core.InvestmentStocks), "Investment type")
	f.Float64Var(&c.quantity, "quantity", 0, "Number of units")
	f.Float64Var(&c.purchasePrice, "price", 0, "Purchase price per unit")
	f.Float64Var(&c.currentPrice, "current", -1, "Current price per unit, defaults to the purchase price")
	f.StringVar(&c.date, "date", "", "Purchase day, defaults to now")
}

func (c *addInvestmentCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}
	typ, err := core.ParseInvestmentType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	current := c.currentPrice
	if current < 0 {
		current = c.purchasePrice
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

	inv, err := s.Vault.Investments.Add(ctx, core.NewInvestment(c.name, c.symbol, c.quantity, c.purchasePrice, current, typ, date))
	if status := reportMutation("investment", err); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Added investment %s: %s worth %s\n", inv.ID, inv.Name, core.FormatMoney(inv.TotalValue(), s.Config.Currency))
	return subcommands.ExitSuccess
}

type investmentsCmd struct{}

func (*investmentsCmd) Name() string     { return "investments" }
func (*investmentsCmd) Synopsis() string { return "list holdings and portfolio totals" }
func (*investmentsCmd) Usage() string {
	return `investments

  Lists every holding followed by the portfolio value, invested amount,
  profit and average return.
`
}

func (*investmentsCmd) SetFlags(*flag.FlagSet) {}

func (c *investmentsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := Open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	m := s.Vault.Investments
	currency := s.Config.Currency
	out := report.InvestmentList(m.Items(), currency)
	if m.Len() > 0 {
		out += fmt.Sprintf("\n\nValue %s, invested %s, profit %s, average return %+.2f%%\n",
			core.FormatMoney(m.TotalValue(), currency),
			core.FormatMoney(m.TotalInvested(), currency),
			core.FormatMoney(m.TotalProfit(), currency),
			m.AverageROI())
	}
	printMarkdown(out)
	return subcommands.ExitSuccess
}

type setPriceCmd struct {
	id    string
	price float64
}

func (*setPriceCmd) Name() string     { return "set-price" }
func (*setPriceCmd) Synopsis() string { return "update the current unit price of a holding" }
func (*setPriceCmd) Usage() string {
	return `set-price -id <id> -price <unit price>

  Sets the current price of a holding. An unknown id changes nothing.
`
}

func (c *setPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identity of the holding (required)")
	f.Float64Var(&c.price, "price", 0, "New current price per unit")
}

func (c *setPriceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if _, ok := s.Vault.Investments.Get(id); !ok {
		fmt.Fprintf(os.Stderr, "Warning: no investment with id %s\n", id)
		return subcommands.ExitSuccess
	}
	if status := reportMutation("investment", s.Vault.Investments.SetPrice(ctx, id, c.price)); status != subcommands.ExitSuccess {
		return status
	}
	inv, _ := s.Vault.Investments.Get(id)
	fmt.Fprintf(stdout, "%s now worth %s (%+.2f%%)\n", inv.Name, core.FormatMoney(inv.TotalValue(), s.Config.Currency), inv.ProfitPercentage())
	return subcommands.ExitSuccess
}
