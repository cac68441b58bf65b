package tradegate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/refresh.php", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("isin") {
		case "US0378331005":
			w.Write([]byte(`{"last":"./.","bid":"182,5","bidsize":100}`))
		case "US5949181045":
			w.Write([]byte(`{"last":371.2}`))
		case "IE00B4L5Y983":
			w.Write([]byte(`{"last":0,"bid":0}`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/chart", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"series":{"intraday":{"data":[[1,1.05],[2,1.25]]}}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c := New(server.Client(), zerolog.Nop())
	c.quoteURL = server.URL + "/refresh.php"
	c.forexURL = server.URL + "/chart"
	return c
}

func TestLatestPrice(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		sec    patrimony.Security
		want   patrimony.Money
		wantOK bool
	}{
		{"bid fallback", patrimony.Security{Ticker: "AAPL", ISIN: "US0378331005"}, patrimony.M(182.5, "EUR"), true},
		{"last", patrimony.Security{Ticker: "MSFT", ISIN: "US5949181045"}, patrimony.M(371.2, "EUR"), true},
		{"empty", patrimony.Security{Ticker: "IWDA", ISIN: "IE00B4L5Y983"}, patrimony.Money{}, false},
		{"unknown", patrimony.Security{Ticker: "X", ISIN: "XX0000000000"}, patrimony.Money{}, false},
		{"no isin", patrimony.Security{Ticker: "AAPL"}, patrimony.Money{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.LatestPrice(ctx, tt.sec)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "LatestPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoricalPriceOnlyToday(t *testing.T) {
	c := newServer(t)
	sec := patrimony.Security{Ticker: "MSFT", ISIN: "US5949181045"}
	_, ok := c.HistoricalPrice(context.Background(), sec, date.Today())
	assert.True(t, ok)
	_, ok = c.HistoricalPrice(context.Background(), sec, date.Today().Add(-10))
	assert.False(t, ok)
}

func TestRate(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	r, ok := c.Rate(ctx, "EUR", "USD", time.Time{})
	require.True(t, ok)
	assert.Equal(t, "1.25", r.String())

	r, ok = c.Rate(ctx, "USD", "EUR", time.Now())
	require.True(t, ok)
	assert.Equal(t, "0.8", r.String())

	_, ok = c.Rate(ctx, "GBP", "EUR", time.Time{})
	assert.False(t, ok)

	_, ok = c.Rate(ctx, "USD", "EUR", time.Now().AddDate(0, -1, 0))
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{12.5, 12.5, false},
		{"12,5", 12.5, false},
		{"1 234,5", 1234.5, false},
		{"abc", 0, true},
		{nil, 0, true},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseNumber(%v)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
