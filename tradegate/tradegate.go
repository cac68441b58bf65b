// Package tradegate reads latest quotes from the Tradegate exchange and the
// EUR/USD rate from Lang & Schwarz.
//
// Tradegate quotes are in EUR and looked up by ISIN; securities without an
// ISIN are not found. There is no history: only today's values are
// returned.
package tradegate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/patrimony"
	"github.com/etnz/patrimony/date"
	"github.com/etnz/patrimony/httpcache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultQuoteURL = "https://www.tradegate.de/refresh.php"
	defaultForexURL = "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId=349938&series=intraday&type=mini"

	// forexPath selects the last intraday point value.
	forexPath = "$.series.intraday.data[-1:][1]"
)

// Client queries Tradegate. It implements patrimony.QuoteProvider and patrimony.RateProvider.
type Client struct {
	http     *http.Client
	log      zerolog.Logger
	quoteURL string
	forexURL string
}

// New returns a Client using httpClient, http.DefaultClient if nil.
func New(httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:     httpClient,
		log:      log.With().Str("client", "tradegate").Logger(),
		quoteURL: defaultQuoteURL,
		forexURL: defaultForexURL,
	}
}

var (
	_ patrimony.QuoteProvider = (*Client)(nil)
	_ patrimony.RateProvider  = (*Client)(nil)
)

// LatestPrice returns the last traded price of sec, in EUR.
func (c *Client) LatestPrice(ctx context.Context, sec patrimony.Security) (patrimony.Money, bool) {
	if sec.ISIN == "" {
		return patrimony.Money{}, false
	}
	v, err := c.latest(ctx, sec.ISIN)
	if err != nil {
		c.log.Warn().Err(err).Str("isin", sec.ISIN).Msg("no quote")
		return patrimony.Money{}, false
	}
	return patrimony.M(v, "EUR"), true
}

// HistoricalPrice is only answered for today.
func (c *Client) HistoricalPrice(ctx context.Context, sec patrimony.Security, on date.Date) (patrimony.Money, bool) {
	if on != date.Today() {
		return patrimony.Money{}, false
	}
	return c.LatestPrice(ctx, sec)
}

// Rate returns the latest EUR/USD rate in either direction.
func (c *Client) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, bool) {
	if !at.IsZero() && date.Of(at) != date.Today() {
		return decimal.Decimal{}, false
	}
	if !(from == "USD" && to == "EUR") && !(from == "EUR" && to == "USD") {
		return decimal.Decimal{}, false
	}
	usdPerEUR, err := c.eurusd(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("no EUR/USD rate")
		return decimal.Decimal{}, false
	}
	if from == "EUR" {
		return usdPerEUR, true
	}
	return decimal.NewFromInt(1).Div(usdPerEUR), true
}

// eurusd returns the number of USD for one EUR.
func (c *Client) eurusd(ctx context.Context) (decimal.Decimal, error) {
	var jobj any
	if err := httpcache.GetJSON(ctx, c.http, c.forexURL, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("error in wget %q: %w", "EUR/USD", err)
	}
	jval, err := jsonpath.Get(forexPath, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing EUR/USD at %q: %w", forexPath, err)
	}
	// jsonpath returns either a single answer or a list of one.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return decimal.Decimal{}, fmt.Errorf("error parsing EUR/USD at %q: not a positive number: %v", forexPath, jval)
	}
	return decimal.NewFromFloat(val), nil
}

var errNoValue = errors.New("no value")

// latest returns the last traded price of isin, falling back to the bid.
func (c *Client) latest(ctx context.Context, isin string) (float64, error) {
	var jobj map[string]any
	if err := httpcache.GetJSON(ctx, c.http, c.quoteURL+"?isin="+isin, &jobj); err != nil {
		return 0, fmt.Errorf("error retrieving %q: %w", isin, err)
	}
	// last moves slower than the bid, but the bid can be 0.
	jval := jobj["last"]
	if s, ok := jval.(string); ok && s == "./." {
		c.log.Debug().Str("isin", isin).Msg("'last' is empty, falling back to 'bid'")
		jval = jobj["bid"]
	}
	val, err := parseNumber(jval)
	if err != nil {
		return 0, fmt.Errorf("cannot read value of %q: %w", isin, err)
	}
	if val == 0 {
		return 0, fmt.Errorf("empty bid for %s: bidsize=%v: %w", isin, jobj["bidsize"], errNoValue)
	}
	return val, nil
}

// parseNumber reads a float64 or a number string with a decimal comma like "1 234,5".
func parseNumber(jval any) (float64, error) {
	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		s := strings.ReplaceAll(v, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid string %q: %w", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("neither a float nor a string: %v: %w", jval, errNoValue)
	}
}
