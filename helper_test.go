package patrimony

import (
	"context"
	"testing"
	"time"

	"github.com/etnz/patrimony/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const wit no currency set
func NO(v float64) Money { return M(v, "") }

// day returns midnight UTC of a "2006-01-02" date.
func day(s string) time.Time {
	d := date.MustParse(s)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func newBuy(on, ticker string, gross, price, fee Money) Transaction {
	return Transaction{Kind: KindBuy, Ticker: ticker, Timestamp: day(on), Gross: gross, UnitPrice: price, Commission: fee}
}

func newSell(on, ticker string, gross, price, fee Money) Transaction {
	return Transaction{Kind: KindSell, Ticker: ticker, Timestamp: day(on), Gross: gross, UnitPrice: price, Commission: fee}
}

func newDividend(on, ticker string, gross, withheld Money) Transaction {
	return Transaction{Kind: KindDividend, Ticker: ticker, Timestamp: day(on), Gross: gross, Commission: withheld}
}

func rate(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func mustLedger(t *testing.T, txs ...Transaction) *Ledger {
	t.Helper()
	l, err := NewLedger(txs...)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	return l
}

// mustBook builds the book of txs in EUR with the given rates.
func mustBook(t *testing.T, rates RateProvider, txs ...Transaction) *Book {
	t.Helper()
	return NewBook(NewJournal(context.Background(), mustLedger(t, txs...), NewNormalizer("EUR", rates)))
}

// fixedRates is a RateProvider with one rate per "FROMTO" pair, whatever the date.
type fixedRates map[string]float64

func (r fixedRates) Rate(_ context.Context, from, to string, _ time.Time) (decimal.Decimal, bool) {
	v, ok := r[from+to]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(v), true
}

// fixedQuotes is a QuoteProvider with one latest price per ticker.
type fixedQuotes map[string]Money

func (q fixedQuotes) LatestPrice(_ context.Context, sec Security) (Money, bool) {
	m, ok := q[sec.Ticker]
	return m, ok
}

func (q fixedQuotes) HistoricalPrice(_ context.Context, sec Security, _ date.Date) (Money, bool) {
	m, ok := q[sec.Ticker]
	return m, ok
}

// eq reports whether got and want have the same value, ignoring currency.
func eq(got Money, want float64) bool {
	return got.Decimal().Equal(decimal.NewFromFloat(want))
}
