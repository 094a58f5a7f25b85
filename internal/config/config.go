package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	GRPCAddr string
	HTTPAddr string
	DBConn   string
	APIToken string
	LogLevel logrus.Level
	Location *time.Location

	RatesURL     string
	RatesTTL     time.Duration
	CoinGeckoURL string // empty disables live crypto quotes

	SnapshotCron  string
	SnapshotUsers []uuid.UUID

	SMTPAddr  string // empty disables failure alerts
	AlertFrom string
	AlertTo   []string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		GRPCAddr:     getEnv("GRPC_ADDR", ":8080"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8081"),
		DBConn:       dbConnString(),
		APIToken:     getEnv("API_TOKEN", ""),
		RatesURL:     getEnv("RATES_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"),
		CoinGeckoURL: getEnv("COINGECKO_URL", ""),
		SnapshotCron: getEnv("SNAPSHOT_CRON", "0 23 * * *"),
		SMTPAddr:     getEnv("SMTP_ADDR", ""),
		AlertFrom:    getEnv("ALERT_FROM", "wealthdash@localhost"),
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	ttl, err := time.ParseDuration(getEnv("RATES_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid RATES_TTL %q", os.Getenv("RATES_TTL"))
	}
	cfg.RatesTTL = ttl

	if _, err := cron.ParseStandard(cfg.SnapshotCron); err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_CRON: %w", err)
	}

	for _, raw := range splitList(getEnv("SNAPSHOT_USERS", "")) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SNAPSHOT_USERS entry %q: %w", raw, err)
		}
		cfg.SnapshotUsers = append(cfg.SnapshotUsers, id)
	}

	cfg.AlertTo = splitList(getEnv("ALERT_TO", ""))

	if cfg.APIToken == "" {
		return nil, fmt.Errorf("API_TOKEN is required")
	}

	return cfg, nil
}

// AlertsEnabled reports whether snapshot failures are mailed
func (c *Config) AlertsEnabled() bool {
	return c.SMTPAddr != "" && len(c.AlertTo) > 0
}

// dbConnString returns DB_CONN_STR, or builds it from individual vars (Docker friendly)
func dbConnString() string {
	if conn := getEnv("DB_CONN_STR", ""); conn != "" {
		return conn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "wealthdash"),
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
