package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/patrimony/date"
	"github.com/etnz/patrimony/httpcache"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// fetchPrices returns the daily close and open prices of an eodhd ticker,
// typically "SYMBOL.EXCHANGECODE", between from and to included.
func (c *Client) fetchPrices(ctx context.Context, ticker string, from, to date.Date) (closes, opens *date.History[decimal.Decimal], err error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
	// [{"date": "2024-02-13", "open": 675.066, "high": 684.219, "low": 648.659, "close": 668.445, "adjusted_close": 67.705, "volume": 0}]
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", c.apiKey)
	q.Set("from", from.String())
	q.Set("to", to.String())
	addr := fmt.Sprintf("%s/eod/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())

	type Info struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
		Open  decimal.Decimal `json:"open"`
	}
	content := make([]Info, 0)
	if err := httpcache.GetJSON(ctx, c.http, addr, &content); err != nil {
		return nil, nil, err
	}

	closes, opens = new(date.History[decimal.Decimal]), new(date.History[decimal.Decimal])
	for _, info := range content {
		if info.Close.IsPositive() {
			closes.Append(info.Date, info.Close)
		}
		if info.Open.IsPositive() {
			opens.Append(info.Date, info.Open)
		}
	}
	return closes, opens, nil
}
