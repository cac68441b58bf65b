// Package eodhd reads end of day prices and forex rates from EOD Historical Data.
//
// An API key is required, see https://eodhd.com.
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://eodhd.com/api"

// window is the number of days fetched before a requested date.
const window = 10

// Client implements patrimony.QuoteProvider and patrimony.RateProvider.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu       sync.Mutex
	listings map[patrimony.Security]listing
}

// listing is where a security trades on eodhd.
type listing struct {
	ticker   string
	currency string
}

// New returns a Client for apiKey. httpClient is typically a daily caching client.
func New(apiKey string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    httpClient,
		log:     log.With().Str("client", "eodhd").Logger(),
		listings: make(map[patrimony.Security]listing),
	}
}

var (
	_ patrimony.QuoteProvider = (*Client)(nil)
	_ patrimony.RateProvider  = (*Client)(nil)
)

// LatestPrice returns the last close of sec.
func (c *Client) LatestPrice(ctx context.Context, sec patrimony.Security) (patrimony.Money, bool) {
	return c.HistoricalPrice(ctx, sec, date.Today())
}

// HistoricalPrice returns the close of sec on 'on', or the last close before it.
func (c *Client) HistoricalPrice(ctx context.Context, sec patrimony.Security, on date.Date) (patrimony.Money, bool) {
	l, err := c.findListing(ctx, sec)
	if err != nil {
		c.log.Warn().Err(err).Stringer("security", sec).Msg("no eodhd ticker")
		return patrimony.Money{}, false
	}
	closes, _, err := c.fetchPrices(ctx, l.ticker, on.Add(-window), on)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", l.ticker).Msg("no prices")
		return patrimony.Money{}, false
	}
	v, ok := closes.ValueAsOf(on)
	if !ok {
		return patrimony.Money{}, false
	}
	cur := sec.Currency
	if cur == "" {
		cur = l.currency
	}
	return patrimony.M(v, cur), true
}

// Rate returns units of 'to' for one 'from'.
//
// eodhd forex close values are unreliable, often equal to the open. The
// open of the next day is closer to the truth and is used instead.
func (c *Client) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	on := date.Today()
	if !at.IsZero() {
		on = date.Of(at)
	}
	ticker := fmt.Sprintf("%s%s.FOREX", from, to)
	_, opens, err := c.fetchPrices(ctx, ticker, on.Add(1-window), on.Add(1))
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("no forex rate")
		return decimal.Decimal{}, false
	}
	// shift opens one day back
	shifted := new(date.History[decimal.Decimal])
	for d, v := range opens.Values() {
		shifted.Append(d.Add(-1), v)
	}
	return shifted.ValueAsOf(on)
}

// findListing returns the eodhd "CODE.EXCHANGE" ticker of sec.
//
// A ledger ticker already in that form is used as is. Otherwise the ISIN is
// searched, and US listing is assumed as a last resort.
func (c *Client) findListing(ctx context.Context, sec patrimony.Security) (listing, error) {
	if strings.Contains(sec.Ticker, ".") {
		return listing{ticker: sec.Ticker}, nil
	}
	if sec.ISIN == "" {
		return listing{ticker: sec.Ticker + ".US"}, nil
	}
	c.mu.Lock()
	l, ok := c.listings[sec]
	c.mu.Unlock()
	if ok {
		return l, nil
	}

	results, err := c.Search(ctx, sec.ISIN)
	if err != nil {
		return listing{}, err
	}
	for _, r := range results {
		if r.ISIN != sec.ISIN {
			continue
		}
		if sec.Currency != "" && r.Currency != sec.Currency {
			continue
		}
		l = listing{ticker: r.Code + "." + r.Exchange, currency: r.Currency}
		c.mu.Lock()
		c.listings[sec] = l
		c.mu.Unlock()
		return l, nil
	}
	return listing{}, fmt.Errorf("security %s is not traded on eodhd", sec)
}
