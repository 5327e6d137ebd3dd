package eodhd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stockpipe/internal/domain"
	"stockpipe/internal/ports"
)

const defaultBaseURL = "https://eodhd.com/api"

// Client implements the ports.BarProvider interface against the EODHD
// end-of-day HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	maxRetries int
	baseDelay  time.Duration
	logger     ports.Logger
}

// Config holds configuration specific to the EODHD client adapter.
type Config struct {
	APIToken   string
	BaseURL    string        // defaults to the public EODHD endpoint
	Timeout    time.Duration // per-request timeout (default 45s)
	MaxRetries int           // extra attempts after a rate-limit response (default 3)
	BaseDelay  time.Duration // first backoff delay; grows linearly (default 2s)
	Logger     ports.Logger
}

// New creates a new EODHD client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for EODHD client")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("%w: EODHD API token is required", ports.ErrConfigurationError)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiToken:   cfg.APIToken,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     cfg.Logger,
	}, nil
}

// bar mirrors one element of the EODHD response array.
type bar struct {
	Date          string   `json:"date"`
	Open          float64  `json:"open"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Close         float64  `json:"close"`
	AdjustedClose *float64 `json:"adjusted_close"`
	Volume        int64    `json:"volume"`
}

// FetchRange fetches the closed date range [from, to] for a symbol.
// A 429 response is retried up to MaxRetries additional times with linearly
// increasing backoff (BaseDelay, 2*BaseDelay, ...); any other non-200 response
// is fatal for the symbol. An empty response body is an empty window, not an
// error.
func (c *Client) FetchRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyBar, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: range start %s after end %s", ports.ErrInvalidRequest,
			domain.FormatDate(from), domain.FormatDate(to))
	}

	q := url.Values{}
	q.Set("from", domain.FormatDate(from))
	q.Set("to", domain.FormatDate(to))
	q.Set("api_token", c.apiToken)
	q.Set("fmt", "json")
	q.Set("order", "a")
	reqURL := fmt.Sprintf("%s/eod/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	for attempt := 0; ; attempt++ {
		rows, retryable, err := c.fetchOnce(ctx, reqURL)
		if err == nil {
			return rows, nil
		}
		if !retryable || attempt >= c.maxRetries {
			return nil, fmt.Errorf("fetch %s: %w", symbol, err)
		}

		delay := c.baseDelay * time.Duration(attempt+1)
		c.logger.Warn(ctx, "rate limited, backing off", map[string]interface{}{
			"symbol":  symbol,
			"attempt": attempt + 1,
			"delay":   delay.String(),
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// fetchOnce performs a single request. The second return value reports whether
// the failure is a rate limit worth retrying.
func (c *Client) fetchOnce(ctx context.Context, reqURL string) ([]domain.DailyBar, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, true, ports.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("%w: HTTP %d: %s", ports.ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		// No trading days in the window (weekend/holiday).
		return nil, false, nil
	}

	var raw []bar
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	bars := make([]domain.DailyBar, 0, len(raw))
	for _, r := range raw {
		bars = append(bars, domain.DailyBar{
			Date:          r.Date,
			Open:          r.Open,
			High:          r.High,
			Low:           r.Low,
			Close:         r.Close,
			AdjustedClose: r.AdjustedClose,
			Volume:        r.Volume,
		})
	}
	return bars, false, nil
}
