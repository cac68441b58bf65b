package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/etnz/patrimony/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseDay parses a report date, empty meaning today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// --- Holding Command ---

type holdingCmd struct {
	date string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the positions held on a date and their market value" }
func (*holdingCmd) Usage() string {
	return `pat holding [-d <date>]

  Displays open positions, their cost basis, market value and unrealized gain.
  Positions are valued with the latest quote for today, the closing price otherwise.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the report (YYYY-MM-DD), defaults to today")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := openAccountingSystem(ctx)
	if err != nil {
		return fail("Error loading ledger: %v", err)
	}
	printMarkdown(renderer.HoldingMarkdown(as.NewHoldingReport(ctx, on)))
	return subcommands.ExitSuccess
}

// --- Tax Command ---

type taxCmd struct {
	period string
	json   bool
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "list realized gains and dividends of a period" }
func (*taxCmd) Usage() string {
	return `pat tax [-p <period>] [-json]

  Lists FIFO disposals and dividends within the period. The period is a year
  (2024), a quarter (2024-Q3), a month (2024-07), a day, the current "year",
  "quarter" or "month", a range (2024-01-01..2024-06-30), an open range
  (..2024-06-30) or "all".
  With -json, writes one record per line instead.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", fmt.Sprint(date.Today().Year()), "Period of the report")
	f.BoolVar(&c.json, "json", false, "Write JSON lines instead of markdown")
}

func (c *taxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParseRange(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := openAccountingSystem(ctx)
	if err != nil {
		return fail("Error loading ledger: %v", err)
	}
	report := as.NewTaxReport(ctx, period)
	if c.json {
		if err := patrimony.EncodeFiscalRecords(out, report.Records()); err != nil {
			return fail("Error writing records: %v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.TaxMarkdown(report))
	return subcommands.ExitSuccess
}

// --- Cash Command ---

type cashCmd struct {
	capital string
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "compare contributed capital with the cash moved by trading" }
func (*cashCmd) Usage() string {
	return `pat cash [-capital <amount>]

  Displays inflows, outflows and the liquidity left from the contributed capital.
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.capital, "capital", getEnv("PATRIMONY_CAPITAL", "0"), "Capital contributed, in base currency")
}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	capital, err := decimal.NewFromString(c.capital)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing capital: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := openAccountingSystem(ctx)
	if err != nil {
		return fail("Error loading ledger: %v", err)
	}
	printMarkdown(renderer.CashMarkdown(as.NewCashReport(ctx, patrimony.M(capital, as.Base))))
	return subcommands.ExitSuccess
}

// --- Summary Command ---

type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the headline figures of the portfolio" }
func (*summaryCmd) Usage() string {
	return `pat summary [-d <date>]

  Displays market value, gains, dividends received and commissions paid.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the summary (YYYY-MM-DD), defaults to today")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	as, err := openAccountingSystem(ctx)
	if err != nil {
		return fail("Error loading ledger: %v", err)
	}
	printMarkdown(renderer.SummaryMarkdown(as.NewSummary(ctx, on)))
	return subcommands.ExitSuccess
}

// --- Log Command ---

type logCmd struct{}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the transactions of the ledger, newest first" }
func (*logCmd) Usage() string {
	return `pat log

  Lists every transaction of the ledger, newest first.
`
}

func (*logCmd) SetFlags(f *flag.FlagSet) {}

func (*logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, closeStore, err := openStore()
	if err != nil {
		return fail("Error opening store: %v", err)
	}
	defer closeStore()
	ledger, err := patrimony.LoadLedger(ctx, s, *userName)
	if err != nil {
		return fail("Error loading ledger: %v", err)
	}
	printMarkdown(renderer.LogMarkdown(ledger))
	return subcommands.ExitSuccess
}

// --- Users Command ---

type usersCmd struct{}

func (*usersCmd) Name() string     { return "users" }
func (*usersCmd) Synopsis() string { return "list the users having a ledger in the store" }
func (*usersCmd) Usage() string {
	return `pat users

  Lists the owners of the ledgers found in the store, for use with -user.
`
}

func (*usersCmd) SetFlags(f *flag.FlagSet) {}

func (*usersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, closeStore, err := openStore()
	if err != nil {
		return fail("Error opening store: %v", err)
	}
	defer closeStore()
	users, err := s.Users(ctx)
	if err != nil {
		return fail("Error listing users: %v", err)
	}
	var b strings.Builder
	b.WriteString("# Users\n\n")
	if len(users) == 0 {
		b.WriteString("No ledger.\n")
	}
	for _, u := range users {
		fmt.Fprintf(&b, "- %s\n", u)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
