package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// History store backends.
const (
	HistoryStoreMemory   = "memory"
	HistoryStorePostgres = "postgres"
	HistoryStoreSQLite   = "sqlite"
	HistoryStoreNone     = "none"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Market   MarketConfig
	History  HistoryConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level overrides the environment's default level when set.
	Level string
}

// MarketConfig selects the market definition and valuation year.
type MarketConfig struct {
	// File is a market YAML document; empty means the built-in definition.
	File string
	// AsOfYear pins the valuation year; 0 means the current calendar year.
	AsOfYear int
}

// HistoryConfig controls where completed valuations are recorded.
type HistoryConfig struct {
	Store string
	// Limit caps the in-memory store.
	Limit      int
	SQLitePath string
	// Breaker settings guard the database-backed stores.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	PoolMin  int
	PoolMax  int
	// ConnectAttempts bounds start-up connection attempts; values below 1 mean one.
	ConnectAttempts int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("MARKET_CONFIG_FILE", "")
	v.SetDefault("VALUATION_AS_OF_YEAR", 0)
	v.SetDefault("HISTORY_STORE", HistoryStoreMemory)
	v.SetDefault("HISTORY_LIMIT", 100)
	v.SetDefault("HISTORY_SQLITE_PATH", "data/history.db")
	v.SetDefault("HISTORY_BREAKER_FAILURES", 5)
	v.SetDefault("HISTORY_BREAKER_TIMEOUT", "30s")
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "propdata")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Market: MarketConfig{
			File:     v.GetString("MARKET_CONFIG_FILE"),
			AsOfYear: v.GetInt("VALUATION_AS_OF_YEAR"),
		},
		History: HistoryConfig{
			Store:           strings.ToLower(strings.TrimSpace(v.GetString("HISTORY_STORE"))),
			Limit:           v.GetInt("HISTORY_LIMIT"),
			SQLitePath:      v.GetString("HISTORY_SQLITE_PATH"),
			BreakerFailures: v.GetUint32("HISTORY_BREAKER_FAILURES"),
			BreakerTimeout:  v.GetDuration("HISTORY_BREAKER_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
			SSLMode:  v.GetString("DB_SSLMODE"),

			ConnectAttempts: v.GetInt("DB_CONNECT_ATTEMPTS"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Database settings are only checked when the postgres history store is selected.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Market.AsOfYear < 0 {
		return fmt.Errorf("VALUATION_AS_OF_YEAR must be non-negative")
	}

	if err := c.History.Validate(); err != nil {
		return err
	}
	if c.History.Store == HistoryStorePostgres {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// Validate checks the history store selection and its settings.
func (h HistoryConfig) Validate() error {
	switch h.Store {
	case HistoryStoreMemory, HistoryStoreNone, HistoryStorePostgres:
	case HistoryStoreSQLite:
		if strings.TrimSpace(h.SQLitePath) == "" {
			return fmt.Errorf("HISTORY_SQLITE_PATH is required for the sqlite history store")
		}
	default:
		return fmt.Errorf("HISTORY_STORE must be one of %s, %s, %s, %s",
			HistoryStoreMemory, HistoryStoreSQLite, HistoryStorePostgres, HistoryStoreNone)
	}
	if h.Limit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1")
	}
	if h.BreakerFailures < 1 {
		return fmt.Errorf("HISTORY_BREAKER_FAILURES must be at least 1")
	}
	if h.BreakerTimeout <= 0 {
		return fmt.Errorf("HISTORY_BREAKER_TIMEOUT must be a positive duration")
	}
	return nil
}

// Validate checks the PostgreSQL settings.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
