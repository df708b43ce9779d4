// Package client talks to the prediction service that serves historical and forecast bars.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raykavin/stockview/pkg/core"
)

const DefaultBaseURL = "http://localhost:8000"

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client fetches bars for a symbol. It never retries and never caches.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

type historyResponse struct {
	Data core.Series `json:"data"`
}

// New creates a client for the service at baseURL (DefaultBaseURL when empty)
func New(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 30 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string { return c.baseURL }

// History fetches GET {base}/api/stocks/{symbol}
func (c *Client) History(ctx context.Context, symbol string) (core.Series, error) {
	var response historyResponse
	if err := c.get(ctx, "stock history", symbol, "/api/stocks/"+url.PathEscape(symbol), &response); err != nil {
		return nil, err
	}

	if response.Data == nil {
		return core.Series{}, nil
	}
	return response.Data, nil
}

// Prediction fetches GET {base}/api/stocks/predict/{symbol}
func (c *Client) Prediction(ctx context.Context, symbol string) (core.Series, error) {
	var bars core.Series
	if err := c.get(ctx, "stock prediction", symbol, "/api/stocks/predict/"+url.PathEscape(symbol), &bars); err != nil {
		return nil, err
	}

	if bars == nil {
		return core.Series{}, nil
	}
	return bars, nil
}

func (c *Client) get(ctx context.Context, op, symbol, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s %s: %w", op, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &core.HTTPError{
			Op:         op,
			Symbol:     symbol,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s %s: %w", op, symbol, err)
	}

	return nil
}
