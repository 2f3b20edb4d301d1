package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"time"

	ratelimitconfig "hamon/internal/ratelimit/config"
	"hamon/internal/ratelimit/models"
	"hamon/pkg/platform/middleware/metadata"
	"hamon/pkg/platform/validation"
)

// Config is the whole process configuration, read once at startup.
type Config struct {
	Server    Server
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit ratelimitconfig.Config
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	TrustedProxies []netip.Prefix
	SeedDemoData   bool
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL selects
// the in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings. An empty URL keeps rate limit
// windows in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsDevelopment reports whether the service runs in the development environment.
func (s Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// FromEnv builds a Config from environment variables so main stays lean.
// Unset variables take their defaults; malformed ones are reported together.
func FromEnv() (Config, error) {
	var errs []error
	env := envReader{errs: &errs}

	server := Server{
		Addr:           env.string("HAMON_ADDR", ":8080"),
		Environment:    env.string("ENVIRONMENT", "development"),
		LogLevel:       env.string("LOG_LEVEL", "info"),
		MaxBodyBytes:   int64(env.int("MAX_BODY_BYTES", validation.MaxBodySize)),
		RequestTimeout: env.duration("REQUEST_TIMEOUT", 15*time.Second),
	}
	server.SeedDemoData = env.bool("SEED_DEMO_DATA", server.IsDevelopment())

	proxies, err := metadata.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}
	server.TrustedProxies = proxies

	rl := ratelimitconfig.DefaultConfig()
	rl.Intake = models.Limit{
		MaxRequests: env.int("CONTACT_RATE_LIMIT_MAX", rl.Intake.MaxRequests),
		Window:      env.duration("CONTACT_RATE_LIMIT_WINDOW", rl.Intake.Window),
	}
	if err := rl.Intake.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("CONTACT_RATE_LIMIT_*: %w", err))
	}
	rl.CleanupInterval = env.duration("RATE_LIMIT_CLEANUP_INTERVAL", rl.CleanupInterval)
	rl.Global.PerSecond = env.float("GLOBAL_THROTTLE_RPS", rl.Global.PerSecond)
	rl.Global.Burst = env.int("GLOBAL_THROTTLE_BURST", rl.Global.Burst)

	cfg := Config{
		Server: server,
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    env.int("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    env.int("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: env.duration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     env.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: env.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 500*time.Millisecond),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 500*time.Millisecond),
		},
		RateLimit: *rl,
	}
	return cfg, errors.Join(errs...)
}

type envReader struct {
	errs *[]error
}

func (e envReader) string(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (e envReader) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e envReader) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e envReader) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
