package patrimony

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/etnz/patrimony/date"
)

func TestNewLedgerSortsStably(t *testing.T) {
	a := newBuy("2025-03-01", "AAPL", EUR(100), EUR(10), EUR(0))
	b := newBuy("2025-01-01", "MSFT", EUR(100), EUR(10), EUR(0))
	c := newSell("2025-01-01", "MSFT", EUR(50), EUR(10), EUR(0)) // same time as b
	l := mustLedger(t, a, b, c)

	var got []Transaction
	for _, tx := range l.Transactions() {
		got = append(got, tx)
	}
	want := []Transaction{b, c, a}
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Ticker != want[i].Ticker || !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("transaction #%d = %v %v, want %v %v", i, got[i].Kind, got[i].Ticker, want[i].Kind, want[i].Ticker)
		}
	}
}

func TestNewLedgerReportsAllErrors(t *testing.T) {
	bad1 := newBuy("2025-03-01", "", EUR(100), EUR(10), EUR(0))
	bad2 := newBuy("2025-03-01", "AAPL", EUR(-100), EUR(10), EUR(0))
	_, err := NewLedger(bad1, bad2)
	if !errors.Is(err, ErrMissingTicker) || !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("NewLedger() error = %v, want both ticker and amount errors", err)
	}
}

func TestNewLedgerRejectsEmptyTrade(t *testing.T) {
	fee := newBuy("2025-03-01", "AAPL", EUR(0), EUR(100), EUR(5))
	if _, err := NewLedger(fee); !errors.Is(err, ErrZeroQuantity) {
		t.Errorf("NewLedger() error = %v, want %v", err, ErrZeroQuantity)
	}
}

func TestLedgerUntil(t *testing.T) {
	l := mustLedger(t,
		newBuy("2025-01-01", "AAPL", EUR(100), EUR(10), EUR(0)),
		newBuy("2025-02-01", "AAPL", EUR(100), EUR(10), EUR(0)),
		newBuy("2025-03-01", "MSFT", EUR(100), EUR(10), EUR(0)),
	)
	if got := l.UntilDate(date.MustParse("2025-02-01")).Len(); got != 2 {
		t.Errorf("UntilDate(2025-02-01).Len() = %d, want 2", got)
	}
	if got := l.UntilDate(date.MustParse("2024-12-31")).Len(); got != 0 {
		t.Errorf("UntilDate(2024-12-31).Len() = %d, want 0", got)
	}
	if got, want := l.Tickers(), []string{"AAPL", "MSFT"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestLedgerUntilDateUsesLocalDay(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	evening := newBuy("2024-12-31", "AAPL", USD(100), USD(10), USD(0))
	evening.Timestamp = time.Date(2024, 12, 31, 22, 0, 0, 0, ny) // 2025-01-01 in UTC
	morning := newBuy("2025-01-01", "MSFT", USD(100), USD(10), USD(0))
	morning.Timestamp = time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)
	l := mustLedger(t, evening, morning)

	got := l.UntilDate(date.MustParse("2024-12-31"))
	if got.Len() != 1 || got.Tickers()[0] != "AAPL" {
		t.Errorf("UntilDate(2024-12-31).Tickers() = %v, want [AAPL]", got.Tickers())
	}
}

func TestLedgerSecurityKeepsISIN(t *testing.T) {
	first := newBuy("2025-01-01", "AAPL", USD(100), USD(10), USD(0))
	first.ISIN = "US0378331005"
	l := mustLedger(t, first, newSell("2025-02-01", "AAPL", NO(50), NO(10), NO(0)))

	sec, ok := l.Security("AAPL")
	if !ok {
		t.Fatal("Security(AAPL) not found")
	}
	if sec.ISIN != "US0378331005" || sec.Currency != "USD" {
		t.Errorf("Security(AAPL) = %+v, want ISIN US0378331005 in USD", sec)
	}
	if _, ok := l.Security("MSFT"); ok {
		t.Error("Security(MSFT) found, want none")
	}
}

func TestLedgerNewest(t *testing.T) {
	l := mustLedger(t,
		newBuy("2025-01-01", "A", EUR(100), EUR(10), EUR(0)),
		newBuy("2025-02-01", "B", EUR(100), EUR(10), EUR(0)),
	)
	var got []string
	for tx := range l.Newest() {
		got = append(got, tx.Ticker)
	}
	if want := []string{"B", "A"}; !slices.Equal(got, want) {
		t.Errorf("Newest() = %v, want %v", got, want)
	}
}

type memStore struct{ txs []Transaction }

func (m *memStore) Load(context.Context, string) ([]Transaction, error) { return m.txs, nil }
func (m *memStore) Append(_ context.Context, _ string, tx Transaction) (string, error) {
	m.txs = append(m.txs, tx)
	return tx.ID, nil
}

func TestLoadLedger(t *testing.T) {
	store := &memStore{txs: []Transaction{newBuy("2025-01-01", "AAPL", EUR(100), EUR(10), EUR(0))}}
	l, err := LoadLedger(context.Background(), store, "alice")
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}
