// Package requesttime pins one "now" per request. The rate limiter, stores,
// and audit entries of a request all read the same instant.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type nowKey struct{}

// Clock supplies the instant captured for each request.
type Clock func() time.Time

// Middleware captures time.Now at the start of every request.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injectable clock, used by tests that need
// to step over a rate limit window without sleeping.
func WithClock(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Now returns the request's pinned time, or time.Now outside a request
// (workers, seeders, tests without the middleware).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins t as the request time on ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, t)
}
