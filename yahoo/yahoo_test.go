package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() (*Client, *int) {
	calls := new(int)
	c := New(zerolog.Nop())
	c.latest = func(symbol string) (float64, error) {
		*calls++
		switch symbol {
		case "AAPL":
			return 190.5, nil
		case "EUR=X":
			return 0.9, nil
		}
		return 0, errors.New("unknown symbol")
	}
	c.history = func(symbol, period string) ([]bar, error) {
		*calls++
		if symbol != "AAPL" && symbol != "GBPEUR=X" {
			return nil, errors.New("unknown symbol")
		}
		return []bar{
			{Date: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), Close: 180},
			{Date: time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC), Close: 0}, // dropped
			{Date: time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC), Close: 185},
		}, nil
	}
	return c, calls
}

func TestLatestPrice(t *testing.T) {
	c, calls := newTestClient()
	ctx := context.Background()
	aapl := patrimony.Security{Ticker: "AAPL", Currency: "USD"}

	m, ok := c.LatestPrice(ctx, aapl)
	require.True(t, ok)
	assert.Equal(t, "USD", m.Currency())
	assert.Equal(t, "190.5", m.Decimal().String())

	_, ok = c.LatestPrice(ctx, aapl)
	require.True(t, ok)
	assert.Equal(t, 1, *calls, "second call must hit the cache")

	_, ok = c.LatestPrice(ctx, patrimony.Security{Ticker: "NOPE"})
	assert.False(t, ok)
}

func TestHistoricalPrice(t *testing.T) {
	c, calls := newTestClient()
	ctx := context.Background()
	aapl := patrimony.Security{Ticker: "AAPL", Currency: "USD"}

	tests := []struct {
		on   string
		want string
		ok   bool
	}{
		{"2024-01-01", "", false},
		{"2024-01-02", "180", true},
		{"2024-01-03", "180", true},
		{"2024-01-06", "185", true},
	}
	for _, tt := range tests {
		m, ok := c.HistoricalPrice(ctx, aapl, date.MustParse(tt.on))
		require.Equal(t, tt.ok, ok, tt.on)
		if ok {
			assert.Equal(t, tt.want, m.Decimal().String(), tt.on)
		}
	}
	assert.Equal(t, 1, *calls, "history is downloaded once")
}

func TestRate(t *testing.T) {
	c, _ := newTestClient()
	ctx := context.Background()

	r, ok := c.Rate(ctx, "USD", "EUR", time.Time{})
	require.True(t, ok)
	assert.Equal(t, "0.9", r.String())

	r, ok = c.Rate(ctx, "GBP", "EUR", time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "180", r.String())

	r, ok = c.Rate(ctx, "EUR", "EUR", time.Time{})
	require.True(t, ok)
	assert.Equal(t, "1", r.String())
}

func TestPair(t *testing.T) {
	assert.Equal(t, "EUR=X", pair("USD", "EUR"))
	assert.Equal(t, "EURUSD=X", pair("EUR", "USD"))
}
