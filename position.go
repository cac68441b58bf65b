package patrimony

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// costTolerance bounds the acceptable gap between a position's cost basis
// and the sum of its lots.
var costTolerance = decimal.New(1, -6)

// Position is the current holding of one ticker.
type Position struct {
	Ticker      string
	Quantity    Quantity
	CostBasis   Money // base currency
	AverageCost Money // CostBasis / Quantity, zero when closed
	Realized    Money // sum of disposal gains
	Unmatched   Quantity
	Lots        []Lot
	Flags       Flags
}

// IsOpen reports whether shares are still held.
func (p Position) IsOpen() bool { return p.Quantity.IsPositive() }

// Aggregate sums open lots into a position.
func Aggregate(ticker string, lots []Lot) Position {
	p := Position{Ticker: ticker, Lots: lots}
	for _, l := range lots {
		p.Quantity = p.Quantity.Add(l.Quantity)
		p.CostBasis = p.CostBasis.Add(l.Cost)
		p.Flags |= l.Flags
	}
	if p.Quantity.IsPositive() {
		p.AverageCost = p.CostBasis.Div(p.Quantity)
	} else {
		p.AverageCost = M(0, p.CostBasis.Currency())
	}
	p.check()
	return p
}

// check panics if the position disagrees with its lots.
func (p Position) check() {
	var sum Money
	for _, l := range p.Lots {
		sum = sum.Add(l.UnitCost.Mul(l.Quantity))
	}
	if !sum.ApproxEqual(p.CostBasis, costTolerance) {
		panic(InvariantError{Ticker: p.Ticker, Msg: fmt.Sprintf("cost basis %v differs from lots %v", p.CostBasis.Decimal(), sum.Decimal())})
	}
	if p.Quantity.IsNegative() {
		panic(InvariantError{Ticker: p.Ticker, Msg: fmt.Sprintf("negative quantity %v", p.Quantity)})
	}
}
