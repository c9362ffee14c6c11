// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, range-query tuning, caching, rate
// limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-pwdcheck-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// HIBPConfig tunes the upstream range-query client.
type HIBPConfig struct {
	BaseURL     string        // HIBP_BASE_URL
	UserAgent   string        // HIBP_USER_AGENT
	Timeout     time.Duration // HIBP_TIMEOUT per-request budget
	MaxAttempts int           // HIBP_MAX_ATTEMPTS including the first try
	BackoffBase time.Duration // HIBP_BACKOFF_BASE first retry delay
	BackoffMax  time.Duration // HIBP_BACKOFF_MAX ceiling on retry delay
}

// RedisConfig defines the optional shared cache backend. An empty Addr
// disables Redis and the service runs on the in-process cache alone.
type RedisConfig struct {
	Addr        string        // REDIS_ADDR (empty disables)
	Password    string        // REDIS_PASSWORD
	DB          int           // REDIS_DB
	DialTimeout time.Duration // REDIS_DIAL_TIMEOUT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// Breach checks
	HIBP             HIBPConfig
	CacheTTL         time.Duration // CACHE_TTL for terminal results
	PendingTTL       time.Duration // PENDING_TTL for in-flight placeholders
	PollInterval     time.Duration // POLL_INTERVAL advertised to clients
	MaxPollAttempts  int           // MAX_POLL_ATTEMPTS advertised to clients
	TokenTTL         time.Duration // TOKEN_TTL; 0 derives PollInterval*MaxPollAttempts
	MaxPasswordRunes int           // MAX_PASSWORD_RUNES accepted per check

	// Async workers
	Workers     int // WORKERS; 0 disables the pool (inline lookups)
	WorkerQueue int // WORKER_QUEUE buffered submissions

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Shared cache
	Redis RedisConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Breach checks
		HIBP: HIBPConfig{
			BaseURL:     getenv("HIBP_BASE_URL", "https://api.pwnedpasswords.com"),
			UserAgent:   getenv("HIBP_USER_AGENT", "go-pwdcheck-backend"),
			Timeout:     getdur("HIBP_TIMEOUT", 5*time.Second),
			MaxAttempts: getint("HIBP_MAX_ATTEMPTS", 4),
			BackoffBase: getdur("HIBP_BACKOFF_BASE", 500*time.Millisecond),
			BackoffMax:  getdur("HIBP_BACKOFF_MAX", 8*time.Second),
		},
		CacheTTL:         getdur("CACHE_TTL", 30*time.Minute),
		PendingTTL:       getdur("PENDING_TTL", 2*time.Minute),
		PollInterval:     getdur("POLL_INTERVAL", 2*time.Second),
		MaxPollAttempts:  getint("MAX_POLL_ATTEMPTS", 150),
		TokenTTL:         getdur("TOKEN_TTL", 0),
		MaxPasswordRunes: getint("MAX_PASSWORD_RUNES", 1024),

		// Async workers
		Workers:     getint("WORKERS", 4),
		WorkerQueue: getint("WORKER_QUEUE", 64),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Shared cache
		Redis: RedisConfig{
			Addr:        getenv("REDIS_ADDR", ""),
			Password:    getenv("REDIS_PASSWORD", ""),
			DB:          getint("REDIS_DB", 0),
			DialTimeout: getdur("REDIS_DIAL_TIMEOUT", 2*time.Second),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-pwdcheck-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	// The client appends /range/<prefix> itself; a trailing slash here is
	// tolerated but never required.
	cfg.HIBP.BaseURL = strings.TrimRight(cfg.HIBP.BaseURL, "/")
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = cfg.PollInterval * time.Duration(cfg.MaxPollAttempts)
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.HIBP.BaseURL) == "" {
		return cfg, errors.New("HIBP_BASE_URL must not be empty")
	}
	if cfg.HIBP.Timeout <= 0 {
		return cfg, errors.New("HIBP_TIMEOUT must be > 0")
	}
	if cfg.HIBP.MaxAttempts < 1 {
		return cfg, errors.New("HIBP_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.HIBP.BackoffBase <= 0 || cfg.HIBP.BackoffMax < cfg.HIBP.BackoffBase {
		return cfg, errors.New("HIBP_BACKOFF_BASE must be > 0 and <= HIBP_BACKOFF_MAX")
	}
	if cfg.CacheTTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.PendingTTL <= 0 {
		return cfg, errors.New("PENDING_TTL must be > 0")
	}
	if cfg.PollInterval <= 0 {
		return cfg, errors.New("POLL_INTERVAL must be > 0")
	}
	if cfg.MaxPollAttempts < 1 {
		return cfg, errors.New("MAX_POLL_ATTEMPTS must be >= 1")
	}
	if cfg.TokenTTL <= 0 {
		return cfg, errors.New("TOKEN_TTL must be > 0")
	}
	// A pending placeholder that outlives its token would leave clients
	// polling a key that can never resolve for them.
	if cfg.PendingTTL >= cfg.TokenTTL {
		return cfg, errors.New("PENDING_TTL must be < TOKEN_TTL")
	}
	if cfg.MaxPasswordRunes < 1 {
		return cfg, errors.New("MAX_PASSWORD_RUNES must be >= 1")
	}
	if cfg.Workers < 0 {
		return cfg, errors.New("WORKERS must be >= 0")
	}
	if cfg.WorkerQueue < 0 {
		return cfg, errors.New("WORKER_QUEUE must be >= 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Redis.DialTimeout <= 0 {
		return cfg, errors.New("REDIS_DIAL_TIMEOUT must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
