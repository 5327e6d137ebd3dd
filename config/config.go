package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stockpipe/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// Price API
	APIToken string // EODHD API token; required only by the ingestion runner

	// Storage
	DataRoot    string // root directory of the partition/manifest tree
	TickersFile string // newline-separated ticker list

	Exchange string

	// Ingestion parameters
	BackstopDays int // first-run lookback when no manifest exists

	// HTTP client
	HTTPTimeout    time.Duration
	MaxRetries     int // extra attempts after a rate-limit response
	RetryBaseDelay time.Duration

	// Logging
	LogLevel logger.LogLevel
}

// Load reads configuration from environment variables (.env file optional).
// The API token is not validated here: only the ingestion runner needs it,
// and it enforces the requirement itself.
func Load() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.APIToken = getEnv("EODHD_API_TOKEN", "")
	cfg.DataRoot = getEnv("DATA_ROOT", "./data/ohlc")
	cfg.TickersFile = getEnv("TICKERS_FILE", "tickers.txt")
	cfg.Exchange = getEnv("EXCHANGE", "NSE")

	cfg.BackstopDays = getEnvAsInt("BACKSTOP_DAYS", 7)
	if cfg.BackstopDays <= 0 {
		errs = append(errs, "BACKSTOP_DAYS must be positive")
	}

	timeoutSeconds := getEnvAsInt("HTTP_TIMEOUT_SECONDS", 45)
	if timeoutSeconds <= 0 {
		errs = append(errs, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	cfg.HTTPTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.MaxRetries = getEnvAsInt("MAX_RETRIES", 3)
	if cfg.MaxRetries < 0 {
		errs = append(errs, "MAX_RETRIES cannot be negative")
	}

	baseDelaySeconds := getEnvAsInt("RETRY_BASE_DELAY_SECONDS", 2)
	if baseDelaySeconds <= 0 {
		errs = append(errs, "RETRY_BASE_DELAY_SECONDS must be positive")
	}
	cfg.RetryBaseDelay = time.Duration(baseDelaySeconds) * time.Second

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// LoadTickers reads the ticker list file: one ticker per line, blank lines
// skipped, surrounding whitespace trimmed.
func LoadTickers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tickers file %s: %w", path, err)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		t := strings.TrimSpace(scanner.Text())
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tickers file %s: %w", path, err)
	}
	return tickers, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
