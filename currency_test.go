package patrimony

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer("EUR", fixedRates{"USDEUR": 0.9})
	at := day("2025-01-02")

	tests := []struct {
		name       string
		amount     Money
		captured   float64 // 0 for none
		want       Money
		wantSource RateSource
		wantFlags  Flags
	}{
		{"identity", EUR(100), 0, EUR(100), RateIdentity, 0},
		{"identity ignores captured rate", EUR(100), 2, EUR(100), RateIdentity, 0},
		{"captured", USD(100), 0.8, EUR(80), RateCaptured, 0},
		{"provided", USD(100), 0, EUR(90), RateProvided, 0},
		{"fallback", M(100, "GBP"), 0, EUR(100), RateFallback, FlagFXEstimated},
		{"missing currency", NO(100), 0, EUR(100), RateIdentity, FlagMissingCurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured = rate(tt.captured)
			if tt.captured == 0 {
				captured = nil
			}
			got := n.Normalize(ctx, tt.amount, at, captured)
			if !got.Value.Equal(tt.want) {
				t.Errorf("Normalize().Value = %v, want %v", got.Value, tt.want)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Normalize().Source = %v, want %v", got.Source, tt.wantSource)
			}
			if got.Flags != tt.wantFlags {
				t.Errorf("Normalize().Flags = %v, want %v", got.Flags, tt.wantFlags)
			}
			if got.Estimated() != (tt.wantSource == RateFallback) {
				t.Errorf("Normalize().Estimated() = %v", got.Estimated())
			}
		})
	}
}

// countingRates counts calls, to check that identity never consults the provider.
type countingRates struct{ calls int }

func (c *countingRates) Rate(context.Context, string, string, time.Time) (d decimal.Decimal, ok bool) {
	c.calls++
	return d, false
}

func TestNormalizeCurrencyNeutrality(t *testing.T) {
	rates := &countingRates{}
	n := NewNormalizer("USD", rates)
	amount := USD(123.456)
	got := n.Normalize(context.Background(), amount, time.Time{}, rate(3))
	if !got.Value.Equal(amount) {
		t.Errorf("Normalize(%v) = %v, want it unchanged", amount, got.Value)
	}
	if rates.calls != 0 {
		t.Errorf("provider called %d times, want 0", rates.calls)
	}
}

func TestRateChain(t *testing.T) {
	chain := RateChain{nil, fixedRates{"GBPEUR": 1.2}, fixedRates{"USDEUR": 0.9, "GBPEUR": 1.1}}
	tests := []struct {
		from   string
		want   float64
		wantOK bool
	}{
		{"GBP", 1.2, true},
		{"USD", 0.9, true},
		{"JPY", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got, ok := chain.Rate(context.Background(), tt.from, "EUR", time.Time{})
			if ok != tt.wantOK {
				t.Fatalf("Rate(%s) ok = %v, want %v", tt.from, ok, tt.wantOK)
			}
			if ok && got.InexactFloat64() != tt.want {
				t.Errorf("Rate(%s) = %v, want %v", tt.from, got, tt.want)
			}
		})
	}
}

func TestJournalSharesRate(t *testing.T) {
	tx := newBuy("2025-01-02", "AAPL", USD(1000), USD(100), USD(10))
	j := NewJournal(context.Background(), mustLedger(t, tx), NewNormalizer("EUR", fixedRates{"USDEUR": 0.5}))
	for e := range j.Entries() {
		if !e.Gross.Equal(EUR(500)) || !e.Commission.Equal(EUR(5)) || !e.UnitPrice.Equal(EUR(50)) {
			t.Errorf("entry = %v %v %v, want 500 5 50 EUR", e.Gross, e.Commission, e.UnitPrice)
		}
		if !e.Quantity.Equal(Q(10)) {
			t.Errorf("entry quantity = %v, want 10", e.Quantity)
		}
	}
}
