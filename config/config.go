// Package config holds all runtime configuration, loaded from
// defaults, an optional .env file, and CHEMSCOUT_* environment
// variables, in that order.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Search
	Suppliers    []string // empty means the whole catalog
	ResultLimit  int
	FuzzyCutoff  int
	QueryTimeout time.Duration

	// Cache
	CacheBackend  string // "file", "redis", "memory"
	CacheDir      string
	CacheCapacity int
	CacheMaxAge   time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Etiquette
	RespectRobots bool
	PaceProfile   string // "cautious", "normal", "fast"
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int
	ProxyFile     string

	// HTTP server
	HTTPPort string
	APIKey   string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ResultLimit:   10,
		FuzzyCutoff:   40,
		QueryTimeout:  60 * time.Second,
		CacheBackend:  "file",
		CacheDir:      defaultCacheDir(),
		CacheCapacity: 100,
		CacheMaxAge:   24 * time.Hour,
		RespectRobots: true,
		PaceProfile:   "normal",
		RatePerSecond: 2.0,
		RateBurst:     3,
		MaxConcurrent: 5,
		HTTPPort:      "8080",
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/chemscout"
	}
	return ".chemscout-cache"
}

// LoadFromEnv loads a .env file if present, then overrides fields
// from environment variables.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("CHEMSCOUT_SUPPLIERS"); v != "" {
		c.Suppliers = splitList(v)
	}
	if v := os.Getenv("CHEMSCOUT_RESULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ResultLimit = n
		}
	}
	if v := os.Getenv("CHEMSCOUT_FUZZY_CUTOFF"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FuzzyCutoff = n
		}
	}
	if v := os.Getenv("CHEMSCOUT_QUERY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.QueryTimeout = d
		}
	}
	if v := os.Getenv("CHEMSCOUT_CACHE_BACKEND"); v != "" {
		c.CacheBackend = v
	}
	if v := os.Getenv("CHEMSCOUT_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("CHEMSCOUT_CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheCapacity = n
		}
	}
	if v := os.Getenv("CHEMSCOUT_CACHE_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheMaxAge = d
		}
	}
	if v := os.Getenv("CHEMSCOUT_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("CHEMSCOUT_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("CHEMSCOUT_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("CHEMSCOUT_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("CHEMSCOUT_PACE_PROFILE"); v != "" {
		c.PaceProfile = v
	}
	if v := os.Getenv("CHEMSCOUT_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("CHEMSCOUT_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("CHEMSCOUT_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("CHEMSCOUT_PROXIES"); v != "" {
		c.ProxyFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("CHEMSCOUT_API_KEY"); v != "" {
		c.APIKey = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
