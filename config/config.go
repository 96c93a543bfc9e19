package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	// APIURL is the storefront API base. STOREFRONT_API_URL overrides it;
	// the default matches the server's mount point.
	APIURL string

	Timeout  time.Duration
	CacheTTL time.Duration

	EnableBreaker bool
	EnableTracing bool

	LogLevel string
}

func Load() Config {
	return Config{
		APIURL:        getenv("STOREFRONT_API_URL", "http://localhost:8080/api"),
		Timeout:       parseDuration(getenv("STOREFRONT_TIMEOUT", "10s"), 10*time.Second),
		CacheTTL:      parseDuration(getenv("STOREFRONT_CACHE_TTL", "5m"), 5*time.Minute),
		EnableBreaker: parseBool(getenv("STOREFRONT_BREAKER", "true")),
		EnableTracing: parseBool(getenv("STOREFRONT_TRACING", "false")),
		LogLevel:      getenv("STOREFRONT_LOG_LEVEL", "info"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
