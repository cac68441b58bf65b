package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/patrimony/httpcache"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Country  string `json:"Country"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

// Search searches for securities by ticker, name or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", c.baseURL, url.PathEscape(term), url.QueryEscape(c.apiKey))
	var results []SearchResult
	if err := httpcache.GetJSON(ctx, c.http, addr, &results); err != nil {
		return nil, err
	}
	return results, nil
}
