package patrimony

import "github.com/etnz/patrimony/date"

// HoldingReport lists the positions held on a day and their market value.
type HoldingReport struct {
	Date date.Date
	Base string
	Rows []Valuation // open positions, sorted by ticker
	Open int         // number of open positions, including hidden ones

	// Totals over every open position. MarketValue and UnrealizedGain
	// only cover positions with a quote.
	MarketValue    Money
	CostBasis      Money
	UnrealizedGain Money
	Realized       Money
	Unvalued       int // open positions without a quote

	Flags Flags
}

func newHoldingReport(on date.Date, base string) *HoldingReport {
	zero := M(0, base)
	return &HoldingReport{
		Date:           on,
		Base:           base,
		MarketValue:    zero,
		CostBasis:      zero,
		UnrealizedGain: zero,
		Realized:       zero,
	}
}

func (r *HoldingReport) add(v Valuation, hidden bool) {
	r.Open++
	r.CostBasis = r.CostBasis.Add(v.CostBasis)
	r.Realized = r.Realized.Add(v.Realized)
	if v.Known {
		r.MarketValue = r.MarketValue.Add(v.MarketValue)
		r.UnrealizedGain = r.UnrealizedGain.Add(v.UnrealizedGain)
	} else {
		r.Unvalued++
	}
	r.Flags |= v.Flags
	if !hidden {
		r.Rows = append(r.Rows, v)
	}
}

// addClosed accounts for the realized gain of a closed position.
func (r *HoldingReport) addClosed(p Position) {
	r.Realized = r.Realized.Add(p.Realized)
	if p.Flags != 0 {
		r.Flags |= p.Flags
		r.Rows = append(r.Rows, Valuation{Position: p, MarketValue: M(0, r.Base), UnrealizedGain: M(0, r.Base)})
	}
}

// CashReport compares contributions with the cash moved by trading.
type CashReport struct {
	Base          string
	Contributions Money
	Flow          CashFlow
	Liquidity     Money
}

// Summary holds the headline figures of a portfolio.
type Summary struct {
	Date           date.Date
	Base           string
	MarketValue    Money
	CostBasis      Money
	UnrealizedGain Money
	Unvalued       int
	Realized       Money
	Dividends      Money
	Commissions    Money
	Positions      int
	Flags          Flags
}
