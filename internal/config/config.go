package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB     DatabaseConfig
	Redis  RedisConfig
	Search SearchConfig
	Cost   CostConfig
	Worker WorkerConfig
	CORS   CORSConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// StatementTimeout is sent to the server as statement_timeout.
	StatementTimeout time.Duration
	MigrationsPath   string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SearchConfig contains offer search tuning.
type SearchConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	QueryTimeout    time.Duration
	// CacheTTL of zero disables the search page cache.
	CacheTTL time.Duration
}

// CostConfig contains the cost comparison policy.
type CostConfig struct {
	HorizonMonths      int
	RequiredPlanMonths int
	PriceUnit          int64
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	ReferenceRefreshInterval time.Duration
}

// CORSConfig lists hosts allowed to call the API from a browser.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:           getEnv("DB_HOST", ""),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", ""),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", ""),
		SSLMode:        getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "file://migrations"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Search
	cfg.Search = SearchConfig{
		DefaultPageSize: getEnvInt("SEARCH_DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     getEnvInt("SEARCH_MAX_PAGE_SIZE", 100),
	}

	// Cost comparison policy
	cfg.Cost = CostConfig{
		HorizonMonths:      getEnvInt("COST_HORIZON_MONTHS", 24),
		RequiredPlanMonths: getEnvInt("COST_REQUIRED_PLAN_MONTHS", 6),
		PriceUnit:          int64(getEnvInt("COST_PRICE_UNIT", 10000)),
	}

	cfg.CORS = CORSConfig{
		AllowedHosts: splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")),
	}

	// Durations
	var err error
	if cfg.DB.StatementTimeout, err = parseDurationEnv("DB_STATEMENT_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid DB_STATEMENT_TIMEOUT: %w", err)
	}
	if cfg.Search.QueryTimeout, err = parseDurationEnv("SEARCH_QUERY_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("invalid SEARCH_QUERY_TIMEOUT: %w", err)
	}
	if cfg.Search.CacheTTL, err = parseDurationEnv("SEARCH_CACHE_TTL", "30s"); err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL: %w", err)
	}
	if cfg.Worker.ReferenceRefreshInterval, err = parseDurationEnv("REFERENCE_REFRESH_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_REFRESH_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// DB parameters are required.
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for store operator authentication")
	}
	if c.Search.DefaultPageSize <= 0 || c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return errors.New("SEARCH_DEFAULT_PAGE_SIZE must be > 0 and <= SEARCH_MAX_PAGE_SIZE")
	}
	if c.Worker.ReferenceRefreshInterval == 0 {
		return errors.New("REFERENCE_REFRESH_INTERVAL must be > 0")
	}
	if c.Cost.HorizonMonths <= 0 || c.Cost.RequiredPlanMonths < 0 || c.Cost.RequiredPlanMonths > c.Cost.HorizonMonths {
		return errors.New("COST_HORIZON_MONTHS must be > 0 and COST_REQUIRED_PLAN_MONTHS within [0, horizon]")
	}
	if c.Cost.PriceUnit <= 0 {
		return errors.New("COST_PRICE_UNIT must be > 0")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
