package patrimony

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/etnz/patrimony/date"
)

// Ledger represents a list of transactions.
//
// In a Ledger transactions are always in chronological order, and
// transactions with the same timestamp keep their recorded order.
type Ledger struct {
	transactions []Transaction
}

// LedgerStore persists the transactions of each user.
//
// Load returns transactions in the order they were recorded. Append stores
// one transaction and returns its ID.
type LedgerStore interface {
	Load(ctx context.Context, user string) ([]Transaction, error)
	Append(ctx context.Context, user string, tx Transaction) (string, error)
}

// NewLedger validates the transactions and returns them as a chronological ledger.
//
// All invalid transactions are reported at once.
func NewLedger(txs ...Transaction) (*Ledger, error) {
	var errs []error
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("transaction #%d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &Ledger{transactions: sorted}, nil
}

// LoadLedger reads the transactions of user from store.
func LoadLedger(ctx context.Context, store LedgerStore, user string) (*Ledger, error) {
	txs, err := store.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger of %q: %w", user, err)
	}
	return NewLedger(txs...)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions iterates over transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Newest iterates over transactions, most recent first.
func (l *Ledger) Newest() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for i := len(l.transactions) - 1; i >= 0; i-- {
			if !yield(l.transactions[i]) {
				return
			}
		}
	}
}

// Tickers returns the sorted list of tickers appearing in the ledger.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]struct{})
	var tickers []string
	for _, tx := range l.transactions {
		if _, ok := seen[tx.Ticker]; !ok {
			seen[tx.Ticker] = struct{}{}
			tickers = append(tickers, tx.Ticker)
		}
	}
	slices.Sort(tickers)
	return tickers
}

// Security returns the security of ticker as last recorded.
//
// ISIN and currency are taken from the last transaction that carries them.
func (l *Ledger) Security(ticker string) (Security, bool) {
	var sec Security
	found := false
	for i := len(l.transactions) - 1; i >= 0; i-- {
		tx := l.transactions[i]
		if tx.Ticker != ticker {
			continue
		}
		if !found {
			sec, found = tx.Security(), true
		}
		if sec.ISIN == "" {
			sec.ISIN = tx.ISIN
		}
		if sec.Currency == "" {
			sec.Currency = tx.Currency()
		}
		if sec.ISIN != "" && sec.Currency != "" {
			break
		}
	}
	return sec, found
}

// UntilDate returns the ledger of transactions dated on or before day.
//
// A transaction is dated by the calendar day of its own timestamp, the way
// disposals and dividends are dated.
func (l *Ledger) UntilDate(day date.Date) *Ledger {
	var txs []Transaction
	for _, tx := range l.transactions {
		if !date.Of(tx.Timestamp).After(day) {
			txs = append(txs, tx)
		}
	}
	return &Ledger{transactions: txs}
}
