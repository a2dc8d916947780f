package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"

	"goldvault/internal/core"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC)

	got, err := parseDate("", now, time.UTC)
	if err != nil || !got.Equal(now) {
		t.Fatalf("parseDate(\"\") = %v, %v; want now", got, err)
	}

	got, err = parseDate("2024-02-29", now, time.UTC)
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if want := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("parseDate = %v, want %v", got, want)
	}

	for _, bad := range []string{"2024-02-30", "12/03/2025", "yesterday"} {
		if _, err := parseDate(bad, now, time.UTC); err == nil {
			t.Errorf("parseDate(%q) succeeded, want error", bad)
		}
	}
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		in      string
		want    []core.Category
		wantErr bool
	}{
		{"", nil, false},
		{"food", []core.Category{core.CategoryFood}, false},
		{"Health, utilities,,", []core.Category{core.CategoryHealth, core.CategoryUtilities}, false},
		{"food,rent", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCategories(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCategories(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseCategories(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	got, err := parsePositions([]string{"1", "3", "3"})
	if err != nil {
		t.Fatalf("parsePositions: %v", err)
	}
	if want := []int{0, 2, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("parsePositions = %v, want %v", got, want)
	}
	for _, bad := range []string{"0", "-1", "two"} {
		if _, err := parsePositions([]string{bad}); err == nil {
			t.Errorf("parsePositions(%q) succeeded, want error", bad)
		}
	}
}

// vaultEnv points the commands at a fresh SQLite vault and captures stdout.
func vaultEnv(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "vault.db"))
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("WEEK_START", "sunday")
	t.Setenv("STRICT_VALIDATION", "false")

	var buf bytes.Buffer
	prevOut, prevPlain := stdout, *plain
	stdout, *plain = &buf, true
	t.Cleanup(func() { stdout, *plain = prevOut, prevPlain })
	return &buf, dir
}

func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: parse flags: %v", cmd.Name(), err)
	}
	return cmd.Execute(context.Background(), f)
}

func TestExpenseCommands(t *testing.T) {
	out, _ := vaultEnv(t)

	for _, args := range [][]string{
		{"-title", "Lunch", "-amount", "12.5", "-category", "food"},
		{"-title", "Bus", "-amount", "2", "-category", "transportation"},
		{"-title", "Cinema", "-amount", "9", "-category", "entertainment"},
	} {
		if got := run(t, &addExpenseCmd{}, args...); got != subcommands.ExitSuccess {
			t.Fatalf("add-expense %v = %v", args, got)
		}
	}
	if got := run(t, &addExpenseCmd{}, "-amount", "1"); got != subcommands.ExitUsageError {
		t.Errorf("add-expense without title = %v, want usage error", got)
	}
	if got := run(t, &addExpenseCmd{}, "-title", "x", "-category", "rent"); got != subcommands.ExitUsageError {
		t.Errorf("add-expense with unknown category = %v, want usage error", got)
	}

	out.Reset()
	if got := run(t, &expensesCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("expenses = %v", got)
	}
	for _, want := range []string{"Lunch", "Bus", "Cinema", "Total: $23.50"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expenses output missing %q:\n%s", want, out)
		}
	}

	if got := run(t, &deleteExpenseCmd{}, "1", "3"); got != subcommands.ExitSuccess {
		t.Fatalf("delete-expense = %v", got)
	}
	if got := run(t, &deleteExpenseCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("delete-expense without target = %v, want usage error", got)
	}

	out.Reset()
	run(t, &expensesCmd{}, "-category", "transportation")
	if !strings.Contains(out.String(), "Bus") || strings.Contains(out.String(), "Lunch") {
		t.Errorf("expected only Bus to remain:\n%s", out)
	}
}

func TestOnboardAndReport(t *testing.T) {
	out, _ := vaultEnv(t)

	if got := run(t, &onboardCmd{}, "-budget", "0"); got != subcommands.ExitUsageError {
		t.Errorf("onboard with zero budget = %v, want usage error", got)
	}
	args := []string{"-budget", "1000", "-categories", "food,health", "-goal", "Trip", "-goal-amount", "500"}
	if got := run(t, &onboardCmd{}, args...); got != subcommands.ExitSuccess {
		t.Fatalf("onboard = %v", got)
	}
	if !strings.Contains(out.String(), "Budget Food: $500.00 per month") {
		t.Errorf("onboard output:\n%s", out)
	}
	if got := run(t, &onboardCmd{}, args...); got != subcommands.ExitFailure {
		t.Errorf("second onboard = %v, want failure", got)
	}

	run(t, &addExpenseCmd{}, "-title", "Pharmacy", "-amount", "45", "-category", "health")

	out.Reset()
	if got := run(t, &reportCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("report = %v", got)
	}
	for _, want := range []string{"# GoldVault on", "## Budgets", "Initial monthly budget: $1,000.00.", "Health", "Trip"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if got := run(t, &resetCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("reset without -yes = %v, want usage error", got)
	}
	if got := run(t, &resetCmd{}, "-yes"); got != subcommands.ExitSuccess {
		t.Fatalf("reset = %v", got)
	}
	out.Reset()
	run(t, &budgetsCmd{})
	if !strings.Contains(out.String(), "No budgets.") {
		t.Errorf("budgets after reset:\n%s", out)
	}
}

func TestGoalAndInvestmentCommands(t *testing.T) {
	out, _ := vaultEnv(t)

	if got := run(t, &addGoalCmd{}, "-title", "Bike", "-target", "400", "-saved", "100"); got != subcommands.ExitSuccess {
		t.Fatalf("add-goal = %v", got)
	}
	id := strings.Fields(strings.TrimPrefix(out.String(), "Added savings goal "))[0]
	id = strings.TrimSuffix(id, ":")

	out.Reset()
	if got := run(t, &contributeCmd{}, "-id", id, "-amount", "350"); got != subcommands.ExitSuccess {
		t.Fatalf("contribute = %v", got)
	}
	if !strings.Contains(out.String(), "$450.00 of $400.00 (100%)") || !strings.Contains(out.String(), "Goal reached!") {
		t.Errorf("contribute output:\n%s", out)
	}
	if got := run(t, &contributeCmd{}, "-id", "not-a-uuid"); got != subcommands.ExitUsageError {
		t.Errorf("contribute with bad id = %v, want usage error", got)
	}

	out.Reset()
	args := []string{"-name", "Acme", "-symbol", "ACM", "-quantity", "10", "-price", "5", "-current", "8"}
	if got := run(t, &addInvestmentCmd{}, args...); got != subcommands.ExitSuccess {
		t.Fatalf("add-investment = %v", got)
	}
	invID := strings.TrimSuffix(strings.Fields(strings.TrimPrefix(out.String(), "Added investment "))[0], ":")

	out.Reset()
	if got := run(t, &setPriceCmd{}, "-id", invID, "-price", "4"); got != subcommands.ExitSuccess {
		t.Fatalf("set-price = %v", got)
	}
	if !strings.Contains(out.String(), "Acme now worth $40.00 (-20.00%)") {
		t.Errorf("set-price output:\n%s", out)
	}

	out.Reset()
	run(t, &investmentsCmd{})
	if !strings.Contains(out.String(), "profit -$10.00") {
		t.Errorf("investments output:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	_, dir := vaultEnv(t)
	run(t, &addExpenseCmd{}, "-title", "Lunch", "-amount", "12", "-category", "food")

	path := filepath.Join(dir, "out", "vault.xlsx")
	if got := run(t, &exportCmd{}, "-o", path); got != subcommands.ExitSuccess {
		t.Fatalf("export = %v", got)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer r.Close()
	f, err := excelize.OpenReader(r)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue("Expenses", "C2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "Lunch" {
		t.Errorf("Expenses!C2 = %q, want Lunch", v)
	}
}
