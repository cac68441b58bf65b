package patrimony

import (
	"context"

	"github.com/etnz/patrimony/date"
)

// QuoteProvider returns market prices, in the security quote currency.
type QuoteProvider interface {
	// LatestPrice returns the most recent price, or false if unavailable.
	LatestPrice(ctx context.Context, sec Security) (Money, bool)
	// HistoricalPrice returns the closing price on 'on', or the last one before it.
	HistoricalPrice(ctx context.Context, sec Security, on date.Date) (Money, bool)
}

// QuoteChain tries each provider in order and returns the first quote found.
type QuoteChain []QuoteProvider

func (c QuoteChain) LatestPrice(ctx context.Context, sec Security) (Money, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if m, ok := p.LatestPrice(ctx, sec); ok && m.IsPositive() {
			return m, true
		}
	}
	return Money{}, false
}

func (c QuoteChain) HistoricalPrice(ctx context.Context, sec Security, on date.Date) (Money, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if m, ok := p.HistoricalPrice(ctx, sec, on); ok && m.IsPositive() {
			return m, true
		}
	}
	return Money{}, false
}

// Valuation is a position joined with a market quote.
type Valuation struct {
	Position
	Known          bool  // a quote was available
	Quote          Money // quote currency
	Rate           Conversion
	MarketValue    Money // base currency, zero when not Known
	UnrealizedGain Money // MarketValue - CostBasis, zero when not Known
	UnrealizedPct  Percent
}

// Value computes the market value of pos at quote, converted with conv.
//
// Without a quote the valuation is not Known, flagged FlagNoQuote, and
// nothing is extrapolated.
func Value(pos Position, quote Money, quoteOK bool, conv Conversion) Valuation {
	base := pos.CostBasis.Currency()
	v := Valuation{
		Position:       pos,
		Quote:          quote,
		Rate:           conv,
		MarketValue:    M(0, base),
		UnrealizedGain: M(0, base),
	}
	if !quoteOK || !quote.IsPositive() {
		v.Flags |= FlagNoQuote
		return v
	}
	v.Known = true
	v.Flags |= conv.Flags
	v.MarketValue = conv.Apply(quote.Mul(pos.Quantity), base)
	v.UnrealizedGain = v.MarketValue.Sub(pos.CostBasis)
	v.UnrealizedPct = ratio(v.UnrealizedGain.Decimal(), pos.CostBasis.Decimal())
	return v
}
