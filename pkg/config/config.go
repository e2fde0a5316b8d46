package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Venue REST API
	VenueName          string
	VenueBaseURL       string
	VenueAPIKey        string
	VenueAPISecret     string
	VenueAPIPassphrase string

	// Fee model
	FeeToken         string
	FeeDiscount      float64
	PerLegFeePct     float64
	TimeSyncBufferMS int

	// Execution engine
	FundingCap               float64
	RevalidationThresholdPct float64
	OrderbookDepth           int
	RequireManualConfirm     bool
	ProbeDeadline            time.Duration
	CycleDeadline            time.Duration
	ManualConfirmDeadline    time.Duration

	// Execution mode: "live" (REST adapter) or "simulate" (in-memory)
	ExecutionMode string

	// Circuit breaker
	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration

	// Storage
	StorageMode  string // "console", "postgres", or "sqlite"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
	SQLitePath   string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		VenueName:          getEnvOrDefault("VENUE_NAME", "kucoin"),
		VenueBaseURL:       getEnvOrDefault("VENUE_BASE_URL", "https://api.kucoin.com"),
		VenueAPIKey:        os.Getenv("VENUE_API_KEY"),
		VenueAPISecret:     os.Getenv("VENUE_API_SECRET"),
		VenueAPIPassphrase: os.Getenv("VENUE_API_PASSPHRASE"),

		FeeToken:         getEnvOrDefault("FEE_TOKEN", "KCS"),
		FeeDiscount:      getFloat64OrDefault("FEE_DISCOUNT", 0.2),
		PerLegFeePct:     getFloat64OrDefault("PER_LEG_FEE_PCT", 0.0008),
		TimeSyncBufferMS: getIntOrDefault("TIME_SYNC_BUFFER_MS", 200),

		FundingCap:               getFloat64OrDefault("FUNDING_CAP", 100.0),
		RevalidationThresholdPct: getFloat64OrDefault("REVALIDATION_THRESHOLD_PCT", 0.8),
		OrderbookDepth:           getIntOrDefault("ORDERBOOK_DEPTH", 10),
		RequireManualConfirm:     getBoolOrDefault("REQUIRE_MANUAL_CONFIRM", false),
		ProbeDeadline:            getDurationOrDefault("PROBE_DEADLINE", 200*time.Millisecond),
		CycleDeadline:            getDurationOrDefault("CYCLE_DEADLINE", 2*time.Second),
		ManualConfirmDeadline:    getDurationOrDefault("MANUAL_CONFIRM_DEADLINE", 5*time.Second),

		ExecutionMode: getEnvOrDefault("EXECUTION_MODE", "simulate"),

		BreakerMaxFailures: getIntOrDefault("BREAKER_MAX_FAILURES", 5),
		BreakerOpenTimeout: getDurationOrDefault("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "triarb"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "triarb123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "triarb"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		SQLitePath:   getEnvOrDefault("SQLITE_PATH", "triarb.db"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT cannot be empty")
	}

	if c.ExecutionMode != "live" && c.ExecutionMode != "simulate" {
		return fmt.Errorf("EXECUTION_MODE must be 'live' or 'simulate', got %q", c.ExecutionMode)
	}

	if c.ExecutionMode == "live" && c.VenueBaseURL == "" {
		return errors.New("VENUE_BASE_URL cannot be empty in live mode")
	}

	if c.FundingCap <= 0 {
		return fmt.Errorf("FUNDING_CAP must be positive, got %f", c.FundingCap)
	}

	if c.RevalidationThresholdPct <= 0 {
		return fmt.Errorf("REVALIDATION_THRESHOLD_PCT must be positive, got %f", c.RevalidationThresholdPct)
	}

	if c.PerLegFeePct < 0 {
		return fmt.Errorf("PER_LEG_FEE_PCT must be non-negative, got %f", c.PerLegFeePct)
	}

	if c.FeeDiscount < 0 || c.FeeDiscount > 1 {
		return fmt.Errorf("FEE_DISCOUNT must be in [0,1], got %f", c.FeeDiscount)
	}

	if c.OrderbookDepth <= 0 {
		return fmt.Errorf("ORDERBOOK_DEPTH must be positive, got %d", c.OrderbookDepth)
	}

	if c.ProbeDeadline <= 0 {
		return fmt.Errorf("PROBE_DEADLINE must be positive, got %s", c.ProbeDeadline)
	}

	if c.CycleDeadline <= 0 {
		return fmt.Errorf("CYCLE_DEADLINE must be positive, got %s", c.CycleDeadline)
	}

	if c.BreakerMaxFailures < 1 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be at least 1, got %d", c.BreakerMaxFailures)
	}

	switch c.StorageMode {
	case "console", "postgres", "sqlite":
	default:
		return fmt.Errorf("STORAGE_MODE must be 'console', 'postgres', or 'sqlite', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}
