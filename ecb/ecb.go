// Package ecb reads historical euro reference rates from the European
// Central Bank data API.
//
// The ECB publishes, for each working day, the units of a currency for one
// euro. Rates between two non-euro currencies are crossed through the
// euro.
package ecb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/etnz/patrimony/httpcache"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL = "https://data-api.ecb.europa.eu/service/data/EXR"

	// observationPath selects the first observation of every series.
	observationPath = `$.dataSets[0].series.*.observations["0"][0]`

	// lookback is the number of days searched before a date without a fixing.
	lookback = 7
)

// Client queries the ECB. It implements patrimony.RateProvider.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	cache   *cache.Cache
}

// New returns a Client using httpClient, a 10s timeout client if nil.
func New(httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: defaultBaseURL,
		http:    httpClient,
		log:     log.With().Str("client", "ecb").Logger(),
		cache:   cache.New(24*time.Hour, 48*time.Hour),
	}
}

var _ patrimony.RateProvider = (*Client)(nil)

// Rate returns the reference rate on the day of 'at', or the last fixing before it.
func (c *Client) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool) {
	on := date.Today()
	if !at.IsZero() {
		on = date.Of(at)
	}
	perEUR := func(cur string) (decimal.Decimal, bool) {
		if cur == "EUR" {
			return decimal.NewFromInt(1), true
		}
		r, err := c.fixing(ctx, cur, on)
		if err != nil {
			c.log.Warn().Err(err).Str("currency", cur).Stringer("date", on).Msg("no reference rate")
			return decimal.Decimal{}, false
		}
		return r, true
	}
	fromPerEUR, ok := perEUR(from)
	if !ok {
		return decimal.Decimal{}, false
	}
	toPerEUR, ok := perEUR(to)
	if !ok {
		return decimal.Decimal{}, false
	}
	return toPerEUR.Div(fromPerEUR), true
}

// fixing returns the units of cur for one EUR on 'on' or the closest working day before.
func (c *Client) fixing(ctx context.Context, cur string, on date.Date) (decimal.Decimal, error) {
	key := fmt.Sprintf("rate-%s-%s", cur, on)
	if v, ok := c.cache.Get(key); ok {
		return v.(decimal.Decimal), nil
	}
	for i := range lookback {
		day := on.Add(-i)
		r, err := c.fetch(ctx, cur, day)
		if err != nil {
			c.log.Debug().Err(err).Str("currency", cur).Stringer("date", day).Msg("no fixing, trying previous day")
			continue
		}
		c.cache.SetDefault(key, r)
		return r, nil
	}
	return decimal.Decimal{}, fmt.Errorf("exchange rate not found for %s on or before %s", cur, on)
}

// fetch reads one day of the D.<cur>.EUR.SP00.A series.
func (c *Client) fetch(ctx context.Context, cur string, on date.Date) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("startPeriod", on.String())
	q.Set("endPeriod", on.String())
	q.Set("format", "jsondata")
	addr := fmt.Sprintf("%s/D.%s.EUR.SP00.A?%s", c.baseURL, cur, q.Encode())

	var jobj any
	if err := httpcache.GetJSON(ctx, c.http, addr, &jobj); err != nil {
		return decimal.Decimal{}, err
	}
	jval, err := jsonpath.Get(observationPath, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: %w", observationPath, err)
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return decimal.Decimal{}, fmt.Errorf("no observation for %s on %s", cur, on)
		}
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return decimal.Decimal{}, fmt.Errorf("observation is not a positive number: %v", jval)
	}
	return decimal.NewFromFloat(val), nil
}
