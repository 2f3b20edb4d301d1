// Package httptransport assembles the public HTTP surface: the shared
// middleware chain, operational endpoints, and each domain's routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ratelimitmw "hamon/internal/ratelimit/middleware"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/httputil"
	"hamon/pkg/platform/middleware/metadata"
	"hamon/pkg/platform/middleware/request"
	"hamon/pkg/platform/middleware/requesttime"
)

// Routes is implemented by every handler that mounts its own endpoints.
type Routes interface {
	Register(r chi.Router)
}

// Config carries the cross-cutting settings of the router.
type Config struct {
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	Latency        *request.Metrics
	Throttle       *ratelimitmw.GlobalThrottle
	TrustedProxies []netip.Prefix
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// Clock pins the request instant; time.Now when nil.
	Clock requesttime.Clock
}

// NewRouter wires operational endpoints (health, metrics) outside the
// throttle and body limits, and the API routes inside them.
func NewRouter(cfg Config, ops Routes, api ...Routes) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: cfg.TrustedProxies}).Handler)
	r.Use(requesttime.WithClock(clock))
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(cfg.Latency))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.NewFailure(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"))
	})

	if ops != nil {
		ops.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(cfg.RequestTimeout))
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
		r.Use(request.ContentTypeJSON)
		r.Use(cfg.Throttle.Handler)
		for _, routes := range api {
			routes.Register(r)
		}
	})

	return r
}
