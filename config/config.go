// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Store – DB_DRIVER selects postgres (default) or an embedded sqlite file.
	DBDriver   string
	SQLitePath string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Logging
	Debug     bool
	LogFormat string

	// Read API server
	Port       string
	TLSDomains []string

	// Upstream racing-statistics API
	APIBaseURL        string
	PageSize          int
	HTTPTimeout       time.Duration
	LapTimesPageDelay time.Duration

	// Importer runs
	LockTTL        time.Duration
	PushgatewayURL string

	// MySQL – used only by cmd/migrate to read the historical Ergast dump.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		log.Fatal("config: ", err)
	}
	return cfg
}

func fromViper(v *viper.Viper) (*Config, error) {
	// Defaults
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("SQLITE_PATH", "f1app.db")
	v.SetDefault("DB_USER", "f1app_usr")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "f1app")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", ":8000")
	v.SetDefault("F1_API_BASE_URL", "https://api.jolpi.ca/ergast/f1")
	v.SetDefault("F1_API_PAGE_SIZE", 30)
	v.SetDefault("F1_API_TIMEOUT", "30s")
	v.SetDefault("LAPTIMES_PAGE_DELAY", "15s")
	v.SetDefault("IMPORT_LOCK_TTL", "2h")

	cfg := &Config{
		DBDriver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBUser:            v.GetString("DB_USER"),
		DBPass:            v.GetString("DB_PASS"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		Debug:             v.GetBool("DEBUG"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		Port:              v.GetString("PORT"),
		TLSDomains:        splitTrimmed(v.GetString("TLS_DOMAINS")),
		APIBaseURL:        strings.TrimRight(v.GetString("F1_API_BASE_URL"), "/"),
		PageSize:          v.GetInt("F1_API_PAGE_SIZE"),
		HTTPTimeout:       v.GetDuration("F1_API_TIMEOUT"),
		LapTimesPageDelay: v.GetDuration("LAPTIMES_PAGE_DELAY"),
		LockTTL:           v.GetDuration("IMPORT_LOCK_TTL"),
		PushgatewayURL:    v.GetString("PUSHGATEWAY_URL"),
		MySQLDSN:          v.GetString("MYSQL_DSN"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && c.DBPass == "" {
			return errors.New("DATABASE_URL or DB_PASS must be set")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH must be set when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.APIBaseURL == "" {
		return errors.New("F1_API_BASE_URL must be set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("F1_API_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.LapTimesPageDelay < 0 {
		return errors.New("LAPTIMES_PAGE_DELAY must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("F1_API_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("IMPORT_LOCK_TTL must be positive, got %s", c.LockTTL)
	}
	return nil
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
