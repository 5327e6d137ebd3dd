package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpipe/internal/adapters/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EODHD_API_TOKEN", "DATA_ROOT", "TICKERS_FILE", "EXCHANGE",
		"BACKSTOP_DAYS", "HTTP_TIMEOUT_SECONDS", "MAX_RETRIES",
		"RETRY_BASE_DELAY_SECONDS", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIToken)
	assert.Equal(t, "./data/ohlc", cfg.DataRoot)
	assert.Equal(t, "tickers.txt", cfg.TickersFile)
	assert.Equal(t, "NSE", cfg.Exchange)
	assert.Equal(t, 7, cfg.BackstopDays)
	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EODHD_API_TOKEN", "secret")
	t.Setenv("DATA_ROOT", "/tmp/ohlc")
	t.Setenv("EXCHANGE", "BSE")
	t.Setenv("BACKSTOP_DAYS", "14")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, "/tmp/ohlc", cfg.DataRoot)
	assert.Equal(t, "BSE", cfg.Exchange)
	assert.Equal(t, 14, cfg.BackstopDays)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKSTOP_DAYS", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedIntFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_RETRIES", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadTickers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.txt")
	require.NoError(t, os.WriteFile(path, []byte("RELIANCE\n\n  TCS  \nINFY\n"), 0o644))

	tickers, err := LoadTickers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RELIANCE", "TCS", "INFY"}, tickers)
}

func TestLoadTickers_MissingFile(t *testing.T) {
	_, err := LoadTickers(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
