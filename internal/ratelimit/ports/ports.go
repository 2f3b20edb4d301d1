// Package ports defines the interfaces shared by the rate limit service,
// middleware, and workers.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks WindowStore,Evictor,Limiter

import (
	"context"
	"time"

	"hamon/internal/ratelimit/models"
)

// WindowStore holds fixed-window counters. Allow performs the whole
// read-check-write for one key atomically and returns the decision.
type WindowStore interface {
	Allow(ctx context.Context, key string, limit models.Limit, now time.Time) (*models.Decision, error)

	// Reset forgets the window for key.
	Reset(ctx context.Context, key string) error
}

// Evictor removes windows that started at or before cutoff. Only windows the
// limiter already treats as expired may be removed.
type Evictor interface {
	EvictExpired(ctx context.Context, cutoff time.Time) (int, error)
}

// Limiter is the admission check consumed by the intake pipeline.
type Limiter interface {
	Check(ctx context.Context, clientKey string) (*models.Decision, error)
}
