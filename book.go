package patrimony

import (
	"slices"
)

// Book is the result of folding a journal through the FIFO lot engine.
//
// A Book is immutable once built.
type Book struct {
	journal   *Journal
	base      string
	queues    map[string]*lotQueue
	realized  map[string]Money
	flags     map[string]Flags
	unmatched map[string]Quantity
	disposals []Disposal
	dividends []DividendRecord
}

// NewBook replays every entry of the journal in order.
func NewBook(j *Journal) *Book {
	b := &Book{
		journal:   j,
		base:      j.Base(),
		queues:    make(map[string]*lotQueue),
		realized:  make(map[string]Money),
		flags:     make(map[string]Flags),
		unmatched: make(map[string]Quantity),
	}
	for e := range j.Entries() {
		ticker := e.Ticker()
		switch e.Kind() {
		case KindBuy:
			b.queue(ticker).buy(e)
			b.flags[ticker] |= e.Flags
		case KindSell:
			b.flags[ticker] |= e.Flags
			for _, d := range b.queue(ticker).sell(e) {
				b.realized[ticker] = b.realized[ticker].Add(d.Gain)
				if d.Flags.Has(FlagOversell) {
					b.flags[ticker] |= FlagOversell
					b.unmatched[ticker] = b.unmatched[ticker].Add(d.Quantity)
				}
				b.disposals = append(b.disposals, d)
			}
		case KindDividend:
			b.dividends = append(b.dividends, newDividendRecord(e))
		}
	}
	return b
}

func (b *Book) queue(ticker string) *lotQueue {
	q, ok := b.queues[ticker]
	if !ok {
		q = &lotQueue{ticker: ticker}
		b.queues[ticker] = q
	}
	return q
}

// Base returns the currency of every amount in the book.
func (b *Book) Base() string { return b.base }

// Journal returns the journal the book was built from.
func (b *Book) Journal() *Journal { return b.journal }

// Position returns the position of ticker, and false if the ticker was never bought or sold.
func (b *Book) Position(ticker string) (Position, bool) {
	q, ok := b.queues[ticker]
	if !ok {
		return Position{}, false
	}
	p := Aggregate(ticker, q.Lots())
	p.CostBasis = p.CostBasis.In(b.base)
	p.AverageCost = p.AverageCost.In(b.base)
	p.Realized = b.realized[ticker].In(b.base)
	p.Unmatched = b.unmatched[ticker]
	p.Flags |= b.flags[ticker]
	return p, true
}

// Positions returns every position, open or closed, sorted by ticker.
func (b *Book) Positions() []Position {
	tickers := make([]string, 0, len(b.queues))
	for t := range b.queues {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)
	positions := make([]Position, 0, len(tickers))
	for _, t := range tickers {
		p, _ := b.Position(t)
		positions = append(positions, p)
	}
	return positions
}

// Disposals returns every FIFO match, in sell order.
func (b *Book) Disposals() []Disposal { return slices.Clone(b.disposals) }

// Dividends returns every dividend, in payment order.
func (b *Book) Dividends() []DividendRecord { return slices.Clone(b.dividends) }

// Realized returns the total realized gain or loss.
func (b *Book) Realized() Money {
	total := M(0, b.base)
	for _, d := range b.disposals {
		total = total.Add(d.Gain)
	}
	return total
}

// CashFlow returns the cash moved by the journal.
func (b *Book) CashFlow() CashFlow { return Accumulate(b.journal.Entries()).In(b.base) }

// Commissions returns the total commission paid over all kinds of transactions.
//
// Commissions are already part of lot costs, sell proceeds and dividend
// withholding: the total is informational.
func (b *Book) Commissions() Money {
	total := M(0, b.base)
	for e := range b.journal.Entries() {
		total = total.Add(e.Commission)
	}
	return total
}

// DividendIncome returns the total net dividend received.
func (b *Book) DividendIncome() Money {
	total := M(0, b.base)
	for _, d := range b.dividends {
		total = total.Add(d.Net)
	}
	return total
}
