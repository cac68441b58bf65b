package patrimony

import (
	"fmt"
	"time"

	"github.com/etnz/patrimony/date"
)

// lot is the unconsumed part of a single purchase.
//
// It keeps the total cost rather than a unit cost so that partial
// consumption never drifts.
type lot struct {
	acquired time.Time
	quantity Quantity
	cost     Money // base currency, commission included
	flags    Flags // inherited by disposals
}

// Lot is a read-only view of an open lot.
type Lot struct {
	Ticker     string
	AcquiredAt time.Time
	Quantity   Quantity
	UnitCost   Money
	Cost       Money
	Flags      Flags
}

// Disposal is the realized result of one FIFO match of a sell against a lot.
//
// An oversell is matched against no lot: its AcquiredAt is zero and its
// Cost is zero.
type Disposal struct {
	Ticker     string
	ISIN       string
	AcquiredAt time.Time
	DisposedAt time.Time
	Quantity   Quantity
	Proceeds   Money
	Cost       Money
	Gain       Money
	Flags      Flags
}

// Date returns the day of the disposal.
func (d Disposal) Date() date.Date { return date.Of(d.DisposedAt) }

// Security returns the disposed ticker.
func (d Disposal) Security() string { return d.Ticker }

func (d Disposal) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Field("type", "disposal")
	w.Field("ticker", d.Ticker)
	w.Text("isin", d.ISIN)
	w.Day("acquired", d.AcquiredAt)
	w.Day("disposed", d.DisposedAt)
	w.Field("quantity", d.Quantity)
	w.Field("currency", d.Proceeds.Currency())
	w.Amount("proceeds", d.Proceeds)
	w.Amount("cost", d.Cost)
	w.Amount("gain", d.Gain)
	w.Flags(d.Flags)
	return w.Bytes()
}

// InvariantError is raised, as a panic, when the lot engine reaches an
// impossible state.
type InvariantError struct {
	Ticker string
	Msg    string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("lot invariant violated on %s: %s", e.Ticker, e.Msg)
}

// lotQueue holds the open lots of one ticker, oldest first.
type lotQueue struct {
	ticker string
	lots   []lot
}

// buy pushes a new lot costing gross plus commission.
func (q *lotQueue) buy(e Entry) {
	if !e.Quantity.IsPositive() {
		return
	}
	q.lots = append(q.lots, lot{
		acquired: e.Time(),
		quantity: e.Quantity,
		cost:     e.Gross.Add(e.Commission),
		flags:    e.Flags,
	})
	q.check()
}

// sell consumes lots oldest first and returns one Disposal per match.
//
// Net proceeds are split across matches in proportion to the quantity, the
// last match taking the remainder so that the split adds up exactly.
// Quantity that no lot can cover is returned as an oversell disposal.
func (q *lotQueue) sell(e Entry) []Disposal {
	remaining := e.Quantity
	var out []Disposal
	for remaining.IsPositive() && len(q.lots) > 0 {
		front := &q.lots[0]
		consumed := minQuantity(front.quantity, remaining)
		var cost Money
		if consumed.Equal(front.quantity) {
			cost = front.cost
		} else {
			cost = front.cost.Mul(consumed).Div(front.quantity)
		}
		out = append(out, Disposal{
			Ticker:     q.ticker,
			ISIN:       e.Tx.ISIN,
			AcquiredAt: front.acquired,
			DisposedAt: e.Time(),
			Quantity:   consumed,
			Cost:       cost,
			Flags:      e.Flags | front.flags,
		})
		front.quantity = front.quantity.Sub(consumed)
		front.cost = front.cost.Sub(cost)
		if front.quantity.IsZero() {
			q.lots = q.lots[1:]
		}
		remaining = remaining.Sub(consumed)
	}
	if remaining.IsPositive() && !remaining.Negligible() {
		out = append(out, Disposal{
			Ticker:     q.ticker,
			ISIN:       e.Tx.ISIN,
			DisposedAt: e.Time(),
			Quantity:   remaining,
			Cost:       M(0, e.Gross.Currency()),
			Flags:      e.Flags | FlagOversell,
		})
	}

	net := e.Net()
	allocated := M(0, net.Currency())
	for i := range out {
		d := &out[i]
		if i == len(out)-1 {
			d.Proceeds = net.Sub(allocated)
		} else {
			d.Proceeds = net.Mul(d.Quantity).Div(e.Quantity)
			allocated = allocated.Add(d.Proceeds)
		}
		d.Gain = d.Proceeds.Sub(d.Cost)
	}
	q.check()
	return out
}

// quantity returns the total open quantity.
func (q *lotQueue) quantity() Quantity {
	var total Quantity
	for _, l := range q.lots {
		total = total.Add(l.quantity)
	}
	return total
}

// Lots returns a snapshot of the open lots.
func (q *lotQueue) Lots() []Lot {
	out := make([]Lot, 0, len(q.lots))
	for _, l := range q.lots {
		out = append(out, Lot{
			Ticker:     q.ticker,
			AcquiredAt: l.acquired,
			Quantity:   l.quantity,
			UnitCost:   l.cost.Div(l.quantity),
			Cost:       l.cost,
			Flags:      l.flags,
		})
	}
	return out
}

// check panics if a lot is empty or negative.
func (q *lotQueue) check() {
	for i, l := range q.lots {
		if !l.quantity.IsPositive() {
			panic(InvariantError{Ticker: q.ticker, Msg: fmt.Sprintf("lot #%d has quantity %v", i, l.quantity)})
		}
		if l.cost.IsNegative() {
			panic(InvariantError{Ticker: q.ticker, Msg: fmt.Sprintf("lot #%d has cost %v", i, l.cost)})
		}
	}
}
