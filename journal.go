package patrimony

import (
	"context"
	"iter"
	"time"
)

// Entry is a transaction with its amounts converted to the base currency.
type Entry struct {
	Tx         Transaction
	Quantity   Quantity // zero for dividends
	Gross      Money    // base currency
	Commission Money    // base currency
	UnitPrice  Money    // base currency
	Rate       Conversion
	Flags      Flags
}

// Ticker returns the ticker of the underlying transaction.
func (e Entry) Ticker() string { return e.Tx.Ticker }

// Kind returns the kind of the underlying transaction.
func (e Entry) Kind() Kind { return e.Tx.Kind }

// Time returns the timestamp of the underlying transaction.
func (e Entry) Time() time.Time { return e.Tx.Timestamp }

// Net returns Gross minus Commission.
func (e Entry) Net() Money { return e.Gross.Sub(e.Commission) }

// Journal holds the chronological list of normalized entries of a ledger.
type Journal struct {
	base    string
	entries []Entry
}

// NewJournal normalizes every transaction of the ledger into base currency.
//
// The three amounts of a transaction are converted with the same rate.
func NewJournal(ctx context.Context, ledger *Ledger, n *Normalizer) *Journal {
	j := &Journal{base: n.Base, entries: make([]Entry, 0, ledger.Len())}
	for _, tx := range ledger.Transactions() {
		rate := n.resolve(ctx, tx.Currency(), tx.Timestamp, tx.CapturedRate)
		j.entries = append(j.entries, Entry{
			Tx:         tx,
			Quantity:   tx.Quantity(),
			Gross:      rate.Apply(tx.Gross, n.Base),
			Commission: rate.Apply(tx.Commission, n.Base),
			UnitPrice:  rate.Apply(tx.UnitPrice, n.Base),
			Rate:       rate,
			Flags:      tx.Flags() | rate.Flags,
		})
	}
	return j
}

// Base returns the currency of every amount in the journal.
func (j *Journal) Base() string { return j.base }

// Len returns the number of entries.
func (j *Journal) Len() int { return len(j.entries) }

// Entries iterates over entries in chronological order.
func (j *Journal) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range j.entries {
			if !yield(e) {
				return
			}
		}
	}
}
