package config

import (
	"time"

	"hamon/internal/ratelimit/models"
)

// Config holds rate limiting configuration. It is fixed at process start.
type Config struct {
	// Intake is the per-client budget shared by every intake endpoint.
	Intake models.Limit

	// Global throttles the whole instance before per-client checks run.
	Global GlobalLimit

	// Fallback governs switching from a shared store to the local one.
	Fallback FallbackConfig

	// CleanupInterval is how often expired windows are evicted. Zero disables
	// the eviction worker.
	CleanupInterval time.Duration
}

// GlobalLimit is a per-instance token bucket.
type GlobalLimit struct {
	PerSecond float64
	Burst     int
}

// FallbackConfig tunes the circuit breaker around the shared store.
type FallbackConfig struct {
	FailureThreshold int
	SuccessThreshold int
	ProbeInterval    time.Duration
}

// DefaultConfig returns the storefront defaults: 5 submissions per client per hour.
func DefaultConfig() *Config {
	return &Config{
		Intake: models.DefaultIntakeLimit,
		Global: GlobalLimit{
			PerSecond: 200,
			Burst:     400,
		},
		Fallback: FallbackConfig{
			FailureThreshold: 5,
			SuccessThreshold: 3,
			ProbeInterval:    time.Second,
		},
		CleanupInterval: 10 * time.Minute,
	}
}
