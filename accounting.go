package patrimony

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/patrimony/date"
	"github.com/rs/zerolog"
)

// AccountingSystem joins a ledger with the providers needed to value it.
//
// Every report is recomputed from the full ledger.
type AccountingSystem struct {
	Ledger *Ledger
	Base   string
	Rates  RateProvider  // may be nil
	Quotes QuoteProvider // may be nil
	Log    zerolog.Logger

	// MinQuantity is the quantity at or below which an unflagged position is
	// left out of holding rows. Totals always include it.
	MinQuantity Quantity
}

// NewAccountingSystem creates a new accounting system reporting in base currency.
func NewAccountingSystem(ledger *Ledger, base string, rates RateProvider, quotes QuoteProvider) (*AccountingSystem, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}
	return &AccountingSystem{
		Ledger:      ledger,
		Base:        base,
		Rates:       rates,
		Quotes:      quotes,
		Log:         zerolog.Nop(),
		MinQuantity: Q(0.01),
	}, nil
}

func (as *AccountingSystem) normalizer() *Normalizer {
	return &Normalizer{
		Base:  as.Base,
		Rates: as.Rates,
		Log:   as.Log.With().Str("component", "normalizer").Logger(),
	}
}

// Journal returns the ledger normalized to the base currency.
func (as *AccountingSystem) Journal(ctx context.Context) *Journal {
	return NewJournal(ctx, as.Ledger, as.normalizer())
}

// Book returns the FIFO book of the whole ledger.
func (as *AccountingSystem) Book(ctx context.Context) *Book {
	return NewBook(as.Journal(ctx))
}

// bookOn returns the book of transactions dated on or before 'on'.
func (as *AccountingSystem) bookOn(ctx context.Context, on date.Date) *Book {
	ledger := as.Ledger
	if !on.IsZero() {
		ledger = ledger.UntilDate(on)
	}
	return NewBook(NewJournal(ctx, ledger, as.normalizer()))
}

// quote returns the price of sec on 'on', latest price for today.
func (as *AccountingSystem) quote(ctx context.Context, sec Security, on date.Date) (Money, bool) {
	if as.Quotes == nil {
		return Money{}, false
	}
	if on.IsZero() || !on.Before(date.Today()) {
		return as.Quotes.LatestPrice(ctx, sec)
	}
	return as.Quotes.HistoricalPrice(ctx, sec, on)
}

// value joins one position with its quote. A missing quote only flags the row.
func (as *AccountingSystem) value(ctx context.Context, n *Normalizer, pos Position, on date.Date) Valuation {
	sec, _ := as.Ledger.Security(pos.Ticker)
	quote, ok := as.quote(ctx, sec, on)
	if !ok {
		as.Log.Warn().Str("ticker", pos.Ticker).Stringer("date", on).Msg("no quote, position left unvalued")
		return Value(pos, quote, false, Conversion{})
	}
	var at time.Time
	if !on.IsZero() && on.Before(date.Today()) {
		at = on.EndOfDay()
	}
	conv := n.Normalize(ctx, quote, at, nil)
	return Value(pos, quote, true, conv)
}

// NewHoldingReport values every position held at the end of day 'on'.
func (as *AccountingSystem) NewHoldingReport(ctx context.Context, on date.Date) *HoldingReport {
	if on.IsZero() {
		on = date.Today()
	}
	book := as.bookOn(ctx, on)
	n := as.normalizer()
	r := newHoldingReport(on, as.Base)
	for _, pos := range book.Positions() {
		if !pos.IsOpen() {
			r.addClosed(pos)
			continue
		}
		v := as.value(ctx, n, pos, on)
		r.add(v, !pos.Quantity.GreaterThan(as.MinQuantity) && pos.Flags == 0)
	}
	return r
}

// NewTaxReport returns the fiscal report of period.
func (as *AccountingSystem) NewTaxReport(ctx context.Context, period date.Range) *TaxReport {
	return NewTaxReport(as.Book(ctx), period)
}

// NewCashReport returns the cash moved by the ledger against contributions.
func (as *AccountingSystem) NewCashReport(ctx context.Context, contributions Money) *CashReport {
	flow := as.Book(ctx).CashFlow()
	contributions = contributions.In(as.Base)
	return &CashReport{
		Base:          as.Base,
		Contributions: contributions,
		Flow:          flow,
		Liquidity:     flow.Liquidity(contributions),
	}
}

// NewSummary returns the headline figures of the portfolio on 'on'.
func (as *AccountingSystem) NewSummary(ctx context.Context, on date.Date) *Summary {
	holding := as.NewHoldingReport(ctx, on)
	book := as.bookOn(ctx, holding.Date)
	return &Summary{
		Date:           holding.Date,
		Base:           as.Base,
		MarketValue:    holding.MarketValue,
		CostBasis:      holding.CostBasis,
		UnrealizedGain: holding.UnrealizedGain,
		Unvalued:       holding.Unvalued,
		Realized:       book.Realized(),
		Dividends:      book.DividendIncome(),
		Commissions:    book.Commissions(),
		Positions:      holding.Open,
		Flags:          holding.Flags,
	}
}
