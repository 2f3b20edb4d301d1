package models

import (
	"fmt"
	"time"

	dErrors "hamon/pkg/domain-errors"
)

// Limit is the fixed-window budget: at most MaxRequests admissions per Window.
type Limit struct {
	MaxRequests int
	Window      time.Duration
}

// DefaultIntakeLimit is the storefront budget: 5 submissions per client per hour.
var DefaultIntakeLimit = Limit{MaxRequests: 5, Window: time.Hour}

// Validate rejects budgets the fixed-window rule cannot honour.
func (l Limit) Validate() error {
	if l.MaxRequests < 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("max requests must be at least 1, got %d", l.MaxRequests))
	}
	if l.Window <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("window must be positive, got %s", l.Window))
	}
	return nil
}

// ClientWindow is the counting state for one client key.
type ClientWindow struct {
	Key         string    `json:"key"`
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// Expired reports whether now is at least one window past WindowStart.
// An expired window is treated exactly like an absent one.
func (w ClientWindow) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(w.WindowStart) >= window
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when denied
	// Degraded is set when the decision came from the fallback store.
	Degraded bool `json:"-"`
}

// Step applies the fixed-window rule to one client's state:
//
//  1. absent or expired window: start a new window with count 1, allow;
//  2. count below the limit: increment, allow;
//  3. otherwise deny and leave the state untouched.
//
// Callers must hold the key's lock (or equivalent) across read, Step and write.
func Step(key string, current ClientWindow, exists bool, limit Limit, now time.Time) (ClientWindow, Decision) {
	if !exists || current.Expired(now, limit.Window) {
		next := ClientWindow{Key: key, Count: 1, WindowStart: now}
		return next, DecisionFor(next, true, limit, now)
	}
	if current.Count < limit.MaxRequests {
		current.Count++
		return current, DecisionFor(current, true, limit, now)
	}
	return current, DecisionFor(current, false, limit, now)
}

// DecisionFor builds the decision reported for a window after a check.
func DecisionFor(w ClientWindow, allowed bool, limit Limit, now time.Time) Decision {
	resetAt := w.WindowStart.Add(limit.Window)
	d := Decision{
		Allowed:   allowed,
		Limit:     limit.MaxRequests,
		Remaining: max(0, limit.MaxRequests-w.Count),
		ResetAt:   resetAt,
	}
	if !allowed {
		d.RetryAfter = retryAfterSeconds(resetAt, now)
	}
	return d
}

// retryAfterSeconds rounds up so a client honouring it never retries early.
func retryAfterSeconds(resetAt, now time.Time) int {
	wait := resetAt.Sub(now)
	if wait <= 0 {
		return 1
	}
	seconds := int(wait / time.Second)
	if wait%time.Second != 0 {
		seconds++
	}
	return seconds
}
