package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpipe/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	c, err := New(Config{
		APIToken:   "test-token",
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		BaseDelay:  5 * time.Millisecond,
		Logger:     nopLogger{},
	})
	require.NoError(t, err)
	return c
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFetchRange_ParsesBarsAndQuery(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`[
			{"date":"2025-06-12","open":1,"high":2,"low":0.5,"close":1.5,"adjusted_close":1.4,"volume":1000},
			{"date":"2025-06-13","open":1.5,"high":2.5,"low":1,"close":2,"adjusted_close":null,"volume":2000}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	bars, err := c.FetchRange(context.Background(), "RELIANCE", date("2025-06-12"), date("2025-06-13"))
	require.NoError(t, err)

	assert.Equal(t, "/eod/RELIANCE", gotPath)
	assert.Equal(t, "2025-06-12", gotQuery["from"])
	assert.Equal(t, "2025-06-13", gotQuery["to"])
	assert.Equal(t, "test-token", gotQuery["api_token"])
	assert.Equal(t, "json", gotQuery["fmt"])
	assert.Equal(t, "a", gotQuery["order"])

	require.Len(t, bars, 2)
	assert.Equal(t, "2025-06-12", bars[0].Date)
	require.NotNil(t, bars[0].AdjustedClose)
	assert.Equal(t, 1.4, *bars[0].AdjustedClose)
	assert.Nil(t, bars[1].AdjustedClose, "JSON null adjusted_close must stay nil")
	assert.Equal(t, int64(2000), bars[1].Volume)
}

func TestFetchRange_EmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	bars, err := c.FetchRange(context.Background(), "TCS", date("2025-06-14"), date("2025-06-15"))
	require.NoError(t, err)
	assert.Empty(t, bars, "weekend/holiday window is not an error")
}

func TestFetchRange_RetriesOnRateLimit(t *testing.T) {
	// Three 429 responses, then success: the call must succeed without
	// surfacing an error (three linear backoff sleeps in between).
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"date":"2025-06-13","open":1,"high":1,"low":1,"close":1,"volume":10}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	start := time.Now()
	bars, err := c.FetchRange(context.Background(), "INFY", date("2025-06-13"), date("2025-06-13"))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, int32(4), attempts.Load())
	// Linear schedule: base + 2*base + 3*base = 6*base.
	assert.GreaterOrEqual(t, time.Since(start), 6*5*time.Millisecond)
}

func TestFetchRange_RateLimitExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	_, err := c.FetchRange(context.Background(), "INFY", date("2025-06-13"), date("2025-06-13"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrRateLimited))
	assert.Equal(t, int32(3), attempts.Load(), "initial attempt plus MaxRetries retries")
}

func TestFetchRange_ServerErrorIsFatal(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	_, err := c.FetchRange(context.Background(), "INFY", date("2025-06-13"), date("2025-06-13"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrProviderUnavailable))
	assert.Equal(t, int32(1), attempts.Load(), "non-429 failures must not be retried")
}

func TestFetchRange_InvalidRange(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid", 3)
	_, err := c.FetchRange(context.Background(), "INFY", date("2025-06-14"), date("2025-06-13"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrInvalidRequest))
}

func TestFetchRange_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(Config{
		APIToken:   "test-token",
		BaseURL:    srv.URL,
		MaxRetries: 5,
		BaseDelay:  time.Minute,
		Logger:     nopLogger{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.FetchRange(ctx, "INFY", date("2025-06-13"), date("2025-06-13"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{APIToken: "x"})
	assert.Error(t, err, "logger is required")

	_, err = New(Config{Logger: nopLogger{}})
	assert.True(t, errors.Is(err, ports.ErrConfigurationError))
}
