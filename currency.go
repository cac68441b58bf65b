package patrimony

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateProvider returns exchange rates.
//
// Rate returns the number of units of 'to' for one unit of 'from', as close
// as possible to 'at' (a zero 'at' means now), or false when no rate is
// available.
type RateProvider interface {
	Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool)
}

// RateChain tries each provider in order and returns the first rate found.
type RateChain []RateProvider

func (c RateChain) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if r, ok := p.Rate(ctx, from, to, at); ok && r.IsPositive() {
			return r, true
		}
	}
	return decimal.Decimal{}, false
}

// RateSource tells where a conversion rate came from.
type RateSource int

const (
	RateIdentity RateSource = iota // same currency
	RateCaptured                   // recorded on the transaction
	RateProvided                   // from the rate provider
	RateFallback                   // unavailable, 1 was used
)

func (s RateSource) String() string {
	switch s {
	case RateIdentity:
		return "identity"
	case RateCaptured:
		return "captured"
	case RateProvided:
		return "provided"
	case RateFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Conversion is an amount expressed in base currency.
type Conversion struct {
	Value  Money
	Rate   decimal.Decimal
	Source RateSource
	Flags  Flags
}

// Estimated reports whether the rate is a fallback and not a real rate.
func (c Conversion) Estimated() bool { return c.Source == RateFallback }

// Apply converts another amount of the same currency with the same rate.
func (c Conversion) Apply(m Money, base string) Money {
	return m.Convert(c.Rate, base)
}

// Normalizer converts amounts to the Base currency.
type Normalizer struct {
	Base  string
	Rates RateProvider // may be nil
	Log   zerolog.Logger
}

// NewNormalizer returns a Normalizer to base using rates.
func NewNormalizer(base string, rates RateProvider) *Normalizer {
	return &Normalizer{Base: base, Rates: rates, Log: zerolog.Nop()}
}

// Normalize converts amount into the base currency.
//
// The rate is, in order of preference: 1 when the currency is the base
// currency, the captured rate when positive, the provider rate at 'at'.
// When none is available the rate 1 is used and the conversion is marked
// estimated. Amounts without currency are read as base currency and
// flagged.
func (n *Normalizer) Normalize(ctx context.Context, amount Money, at time.Time, captured *decimal.Decimal) Conversion {
	c := n.resolve(ctx, amount.Currency(), at, captured)
	c.Value = c.Apply(amount, n.Base)
	return c
}

// resolve finds the rate from 'from' to the base currency.
func (n *Normalizer) resolve(ctx context.Context, from string, at time.Time, captured *decimal.Decimal) Conversion {
	one := decimal.NewFromInt(1)
	switch {
	case from == "":
		return Conversion{Rate: one, Source: RateIdentity, Flags: FlagMissingCurrency}
	case from == n.Base:
		return Conversion{Rate: one, Source: RateIdentity}
	case captured != nil && captured.IsPositive():
		return Conversion{Rate: *captured, Source: RateCaptured}
	}
	if n.Rates != nil {
		if r, ok := n.Rates.Rate(ctx, from, n.Base, at); ok && r.IsPositive() {
			return Conversion{Rate: r, Source: RateProvided}
		}
	}
	n.Log.Warn().
		Str("from", from).
		Str("to", n.Base).
		Time("at", at).
		Msg("exchange rate unavailable, using 1")
	return Conversion{Rate: one, Source: RateFallback, Flags: FlagFXEstimated}
}
