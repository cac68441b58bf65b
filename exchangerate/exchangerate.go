// Package exchangerate reads latest exchange rates from exchangerate-api.com.
package exchangerate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/etnz/patrimony/httpcache"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// Client for exchangerate-api.com. It implements patrimony.RateProvider for today only.
//
// Fetched rates are kept for an hour. When the API fails, the last rate
// ever fetched is used instead.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	fresh   *cache.Cache
	stale   *cache.Cache
}

// New creates a new exchangerate-api.com client.
func New(log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "exchangerate-api").Logger(),
		fresh:   cache.New(time.Hour, 2*time.Hour),
		stale:   cache.New(cache.NoExpiration, 0),
	}
}

var _ patrimony.RateProvider = (*Client)(nil)

// Rate returns the latest rate from 'from' to 'to'. Past dates are not available.
func (c *Client) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if !at.IsZero() && date.Of(at).Before(date.Today()) {
		return decimal.Decimal{}, false
	}
	r, err := c.latest(ctx, from, to)
	if err != nil {
		c.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("no rate")
		return decimal.Decimal{}, false
	}
	return r, true
}

func (c *Client) latest(ctx context.Context, from, to string) (decimal.Decimal, error) {
	key := from + ":" + to
	if v, ok := c.fresh.Get(key); ok {
		c.log.Debug().Str("pair", key).Msg("cache hit")
		return v.(decimal.Decimal), nil
	}

	rate, err := c.fetch(ctx, from, to)
	if err != nil {
		if v, ok := c.stale.Get(key); ok {
			c.log.Warn().Err(err).Str("pair", key).Msg("API failed, using stale cached rate")
			return v.(decimal.Decimal), nil
		}
		return decimal.Decimal{}, err
	}
	c.fresh.SetDefault(key, rate)
	c.stale.SetDefault(key, rate)
	c.log.Info().Str("pair", key).Stringer("rate", rate).Msg("fetched rate")
	return rate, nil
}

func (c *Client) fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	var result struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	url := fmt.Sprintf("%s/%s", c.baseURL, from)
	if err := httpcache.GetJSON(ctx, c.client, url, &result); err != nil {
		return decimal.Decimal{}, fmt.Errorf("API request failed: %w", err)
	}
	rate, ok := result.Rates[to]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("rate not found for %s->%s", from, to)
	}
	return rate, nil
}
