package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string

	// TrustedProxies is a comma-separated CIDR list allowed to set X-Forwarded-For.
	TrustedProxies string

	QuoteAPI QuoteAPIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Pricing  PricingConfig
}

// QuoteAPIConfig configures the upstream user/plan API.
type QuoteAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig configures quote sessions and their bearer tokens.
type SessionConfig struct {
	// Timeout is the inactivity window after which a session's state is cleared.
	Timeout    time.Duration
	TokenTTL   time.Duration
	SigningKey string
	Issuer     string
}

// RedisConfig configures the optional Redis persistence backend.
// An empty URL selects the in-memory backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PricingConfig toggles optional pricing rules.
type PricingConfig struct {
	SeniorDiscount bool
}

const (
	DefaultAddr           = ":8080"
	DefaultQuoteAPIURL    = "https://rimac-front-end-challenge.netlify.app/api"
	DefaultQuoteAPITimout = 10 * time.Second
	DefaultSessionTimeout = 30 * time.Minute
	DefaultTokenTTL       = 24 * time.Hour
	DefaultTokenIssuer    = "quoteflow"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	signingKey := os.Getenv("SESSION_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:           envString("QUOTEFLOW_ADDR", DefaultAddr),
		Environment:    envString("ENVIRONMENT", "development"),
		LogLevel:       envString("LOG_LEVEL", "info"),
		TrustedProxies: os.Getenv("TRUSTED_PROXIES"),
		QuoteAPI: QuoteAPIConfig{
			BaseURL: strings.TrimRight(envString("QUOTE_API_BASE_URL", DefaultQuoteAPIURL), "/"),
			Timeout: envDuration("QUOTE_API_TIMEOUT", DefaultQuoteAPITimout),
		},
		Session: SessionConfig{
			Timeout:    envDuration("SESSION_TIMEOUT", DefaultSessionTimeout),
			TokenTTL:   envDuration("SESSION_TOKEN_TTL", DefaultTokenTTL),
			SigningKey: signingKey,
			Issuer:     envString("SESSION_TOKEN_ISSUER", DefaultTokenIssuer),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Pricing: PricingConfig{
			SeniorDiscount: os.Getenv("SENIOR_DISCOUNT_ENABLED") == "true",
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDuration parses a Go duration string; invalid or non-positive values fall back.
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
