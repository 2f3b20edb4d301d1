// Package health serves the liveness, readiness, and status probes.
package health

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"hamon/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc reports nil when a dependency is healthy. Returning an error
// built with Degraded keeps the instance ready but flags it.
type CheckFunc func(ctx context.Context) error

// Check states.
const (
	StateUp       = "up"
	StateDegraded = "degraded"
	StateDown     = "down"
)

type degradedError struct{ reason string }

func (e *degradedError) Error() string { return e.reason }

// Degraded marks a dependency that still serves, at reduced fidelity.
func Degraded(reason string) error {
	return &degradedError{reason: reason}
}

// Handler provides health check endpoints.
type Handler struct {
	startTime    time.Time
	environment  string
	checkTimeout time.Duration
	now          func() time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func New(environment string) *Handler {
	return &Handler{
		startTime:    time.Now(),
		environment:  environment,
		checkTimeout: 2 * time.Second,
		now:          time.Now,
		checks:       make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named readiness check, replacing one of the same name.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

// CheckResult is one dependency's line in the readiness report.
type CheckResult struct {
	State     string `json:"state"`
	LatencyMS int64  `json:"latency_ms"`
	Detail    string `json:"detail,omitempty"`
}

type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// HandleReadiness runs every check concurrently under one deadline. Any
// down dependency answers 503; degraded ones still answer 200.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	names := slices.Sorted(maps.Keys(checks))
	results := make([]CheckResult, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			start := time.Now()
			err := checks[name](ctx)
			results[i] = resultOf(err, time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	response := ReadinessResponse{Status: "ready", Checks: make(map[string]CheckResult, len(names))}
	status := http.StatusOK
	for i, name := range names {
		response.Checks[name] = results[i]
		switch results[i].State {
		case StateDown:
			response.Status = "not_ready"
			status = http.StatusServiceUnavailable
		case StateDegraded:
			if status == http.StatusOK {
				response.Status = StateDegraded
			}
		}
	}
	httputil.WriteJSON(w, status, response)
}

func resultOf(err error, elapsed time.Duration) CheckResult {
	res := CheckResult{State: StateUp, LatencyMS: elapsed.Milliseconds()}
	var degraded *degradedError
	switch {
	case err == nil:
	case errors.As(err, &degraded):
		res.State, res.Detail = StateDegraded, degraded.reason
	default:
		res.State, res.Detail = StateDown, err.Error()
	}
	return res
}

type StatusResponse struct {
	Service       string `json:"service"`
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Service:       "hamon",
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.startTime).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
