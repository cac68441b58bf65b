// Package httpcache keeps successful HTTP GET responses on disk for the day.
//
// Provider clients use it so that repeated reports within a day do not hit
// remote services again.
package httpcache

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/patrimony/date"
	"github.com/rs/zerolog"
)

// DiskCache is an http.RoundTripper storing responses under Dir.
//
// Keys include the current day, so entries expire at midnight.
type DiskCache struct {
	Base  http.RoundTripper // defaults to http.DefaultTransport
	Dir   string            // defaults to os.TempDir()
	Log   zerolog.Logger
	today func() date.Date
}

// New returns a DiskCache in dir on top of the default transport.
func New(dir string, log zerolog.Logger) *DiskCache {
	return &DiskCache{Base: http.DefaultTransport, Dir: dir, Log: log}
}

// Client returns an http.Client using the cache.
func (c *DiskCache) Client() *http.Client {
	return &http.Client{Transport: c}
}

func (c *DiskCache) base() http.RoundTripper {
	if c.Base == nil {
		return http.DefaultTransport
	}
	return c.Base
}

func (c *DiskCache) dir() string {
	if c.Dir == "" {
		return os.TempDir()
	}
	return c.Dir
}

func (c *DiskCache) key(req *http.Request) string {
	today := date.Today()
	if c.today != nil {
		today = c.today()
	}
	key := fmt.Sprintf("%s %s %s", today, req.Method, req.URL.String())
	return fmt.Sprintf("%x", sha1.Sum([]byte(key)))
}

func (c *DiskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.base().RoundTrip(req)
	}
	key := c.key(req)
	if resp, err := c.get(key, req); err == nil {
		c.Log.Debug().Str("url", req.URL.String()).Msg("cache hit")
		return resp, nil
	}

	resp, err := c.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.Log.Debug().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.Log.Warn().Err(err).Msg("cache write failed, ignored")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *DiskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache
func (c *DiskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir(), key), content, 0o644)
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response into data.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
