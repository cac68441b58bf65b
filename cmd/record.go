package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// txFlags holds the flags shared by every record command.
type txFlags struct {
	date     string
	ticker   string
	isin     string
	currency string
	fee      float64
	rate     float64
	memo     string
}

func (c *txFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), defaults to now")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.StringVar(&c.isin, "isin", "", "Optional ISIN of the security")
	f.StringVar(&c.currency, "c", "", "Currency of the amounts, defaults to the base currency")
	f.Float64Var(&c.fee, "fee", 0, "Commission paid, or tax withheld for a dividend")
	f.Float64Var(&c.rate, "rate", 0, "Base currency units for one unit of the transaction currency, if known")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

// base builds the common part of a transaction.
func (c *txFlags) base(kind patrimony.Kind, now time.Time) (patrimony.Transaction, error) {
	tx := patrimony.Transaction{
		Kind:   kind,
		Ticker: patrimony.NormalizeTicker(c.ticker),
		ISIN:   c.isin,
		Memo:   c.memo,
	}
	tx.Timestamp = now.UTC()
	if c.date != "" {
		on, err := date.Parse(c.date)
		if err != nil {
			return tx, err
		}
		if !on.IsToday() {
			tx.Timestamp = time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	if tx.ISIN != "" {
		if err := patrimony.ValidateISIN(tx.ISIN); err != nil {
			return tx, err
		}
	}
	if c.currency == "" {
		c.currency = *baseCur
	}
	if err := patrimony.ValidateCurrency(c.currency); err != nil {
		return tx, err
	}
	tx.Commission = patrimony.M(c.fee, c.currency)
	if c.rate > 0 {
		r := decimal.NewFromFloat(c.rate)
		tx.CapturedRate = &r
	}
	return tx, nil
}

// record appends tx to the user ledger.
func record(ctx context.Context, tx patrimony.Transaction) subcommands.ExitStatus {
	if err := tx.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	s, closeStore, err := openStore()
	if err != nil {
		return fail("Error opening store: %v", err)
	}
	defer closeStore()
	id, err := s.Append(ctx, *userName, tx)
	if err != nil {
		return fail("Error recording transaction: %v", err)
	}
	fmt.Fprintf(out, "Recorded %s of %s (%s)\n", tx.Kind, tx.Ticker, id)
	return subcommands.ExitSuccess
}

// --- Buy and Sell Commands ---

type recordCmd struct {
	kind patrimony.Kind
	txFlags
	quantity float64
	price    float64
}

func (c *recordCmd) Name() string { return string(c.kind) }
func (c *recordCmd) Synopsis() string {
	if c.kind == patrimony.KindSell {
		return "record a sale of shares"
	}
	return "record a purchase of shares"
}
func (c *recordCmd) Usage() string {
	return fmt.Sprintf(`pat %s -t <ticker> -q <quantity> -p <price> [-c <currency>] [-fee <commission>] [-rate <rate>] [-d <date>] [-isin <isin>] [-m <memo>]

  Records a %s. The gross amount is quantity times price, commission excluded.
`, c.kind, c.kind)
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
}

func (c *recordCmd) transaction(now time.Time) (patrimony.Transaction, error) {
	if c.ticker == "" || c.quantity <= 0 || c.price <= 0 {
		return patrimony.Transaction{}, fmt.Errorf("%s needs a ticker, a positive quantity and a positive price", c.kind)
	}
	tx, err := c.base(c.kind, now)
	if err != nil {
		return tx, err
	}
	price := decimal.NewFromFloat(c.price)
	tx.UnitPrice = patrimony.M(price, c.currency)
	tx.Gross = patrimony.M(price.Mul(decimal.NewFromFloat(c.quantity)), c.currency)
	return tx, nil
}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction(time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return record(ctx, tx)
}

// --- Dividend Command ---

type dividendCmd struct {
	txFlags
	amount float64
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend payment" }
func (*dividendCmd) Usage() string {
	return `pat dividend -t <ticker> -a <amount> [-fee <withheld>] [-c <currency>] [-rate <rate>] [-d <date>] [-isin <isin>] [-m <memo>]

  Records a dividend. The amount is gross, before the tax withheld given with -fee.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.Float64Var(&c.amount, "a", 0, "Gross dividend amount")
}

func (c *dividendCmd) transaction(now time.Time) (patrimony.Transaction, error) {
	if c.ticker == "" || c.amount <= 0 {
		return patrimony.Transaction{}, fmt.Errorf("dividend needs a ticker and a positive amount")
	}
	tx, err := c.base(patrimony.KindDividend, now)
	if err != nil {
		return tx, err
	}
	tx.Gross = patrimony.M(c.amount, c.currency)
	return tx, nil
}

func (c *dividendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction(time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return record(ctx, tx)
}
