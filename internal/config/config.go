package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string
	DatabaseURL      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	TaxonomyCacheTTL time.Duration
	MaxListPageSize  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          mustInt(getEnv("REDIS_DB", "0")),
		TaxonomyCacheTTL: mustDuration(getEnv("TAXONOMY_CACHE_TTL", "10m")),
		MaxListPageSize:  mustInt(getEnv("MAX_LIST_PAGE_SIZE", "200")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TaxonomyCacheTTL <= 0 {
		return nil, fmt.Errorf("TAXONOMY_CACHE_TTL must be a positive duration")
	}
	if cfg.MaxListPageSize <= 0 {
		return nil, fmt.Errorf("MAX_LIST_PAGE_SIZE must be positive")
	}

	return cfg, nil
}

// GetDatabaseURL implements the platform db.Config interface.
func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
