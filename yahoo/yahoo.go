// Package yahoo reads security quotes and currency rates from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
	"golang.org/x/time/rate"
)

// bar is one daily close.
type bar struct {
	Date  time.Time
	Close float64
}

// Client queries Yahoo Finance through go-yfinance.
//
// It implements both patrimony.QuoteProvider, using the ledger ticker as the
// Yahoo symbol, and patrimony.RateProvider, using the "<FROM><TO>=X" pairs.
type Client struct {
	log     zerolog.Logger
	limiter *rate.Limiter
	quotes  *cache.Cache // symbol -> decimal.Decimal
	series  *cache.Cache // symbol -> *date.History[decimal.Decimal]

	// Period is the depth of the price history downloaded once per symbol.
	Period string

	latest  func(symbol string) (float64, error)
	history func(symbol, period string) ([]bar, error)
}

// New returns a Client limited to two requests per second.
func New(log zerolog.Logger) *Client {
	return &Client{
		log:     log.With().Str("client", "yahoo").Logger(),
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		quotes:  cache.New(15*time.Minute, 30*time.Minute),
		series:  cache.New(12*time.Hour, 24*time.Hour),
		Period:  "10y",
		latest:  fetchLatest,
		history: fetchHistory,
	}
}

var (
	_ patrimony.QuoteProvider = (*Client)(nil)
	_ patrimony.RateProvider  = (*Client)(nil)
)

func fetchLatest(symbol string) (float64, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()
	quote, err := t.Quote()
	if err != nil {
		return 0, fmt.Errorf("failed to get quote: %w", err)
	}
	if quote == nil || quote.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("no market price for %s", symbol)
	}
	return quote.RegularMarketPrice, nil
}

func fetchHistory(symbol, period string) ([]bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()
	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}
	res := make([]bar, 0, len(bars))
	for _, b := range bars {
		res = append(res, bar{Date: b.Date, Close: b.Close})
	}
	return res, nil
}

// LatestPrice returns the regular market price of sec.
func (c *Client) LatestPrice(ctx context.Context, sec patrimony.Security) (patrimony.Money, bool) {
	v, ok := c.latestValue(ctx, sec.Ticker)
	if !ok {
		return patrimony.Money{}, false
	}
	return patrimony.M(v, sec.Currency), true
}

// HistoricalPrice returns the close of sec on 'on', or the last close before it.
func (c *Client) HistoricalPrice(ctx context.Context, sec patrimony.Security, on date.Date) (patrimony.Money, bool) {
	v, ok := c.closeAsOf(ctx, sec.Ticker, on)
	if !ok {
		return patrimony.Money{}, false
	}
	return patrimony.M(v, sec.Currency), true
}

// Rate returns the units of 'to' for one 'from'.
func (c *Client) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	symbol := pair(from, to)
	if at.IsZero() || !date.Of(at).Before(date.Today()) {
		return c.latestValue(ctx, symbol)
	}
	return c.closeAsOf(ctx, symbol, date.Of(at))
}

// pair returns the Yahoo symbol of a currency pair; USD based pairs drop the base.
func pair(from, to string) string {
	if from == "USD" {
		return to + "=X"
	}
	return from + to + "=X"
}

func (c *Client) latestValue(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	if symbol == "" {
		return decimal.Decimal{}, false
	}
	if v, ok := c.quotes.Get(symbol); ok {
		return v.(decimal.Decimal), true
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, false
	}
	f, err := c.latest(symbol)
	if err != nil || f <= 0 {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("no latest price")
		return decimal.Decimal{}, false
	}
	v := decimal.NewFromFloat(f)
	c.quotes.SetDefault(symbol, v)
	return v, true
}

func (c *Client) closeAsOf(ctx context.Context, symbol string, on date.Date) (decimal.Decimal, bool) {
	h, err := c.load(ctx, symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("no price history")
		return decimal.Decimal{}, false
	}
	return h.ValueAsOf(on)
}

func (c *Client) load(ctx context.Context, symbol string) (*date.History[decimal.Decimal], error) {
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	if v, ok := c.series.Get(symbol); ok {
		return v.(*date.History[decimal.Decimal]), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	bars, err := c.history(symbol, c.Period)
	if err != nil {
		return nil, err
	}
	h := new(date.History[decimal.Decimal])
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		h.Append(date.Of(b.Date), decimal.NewFromFloat(b.Close))
	}
	c.log.Debug().Str("symbol", symbol).Int("bars", h.Len()).Msg("loaded price history")
	c.series.SetDefault(symbol, h)
	return h, nil
}
