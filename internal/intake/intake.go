// Package intake runs every storefront write through the same request
// pipeline: rate check, schema validation, the domain operation, and a
// uniform response.
//
//	Received -> RateChecked -> Validated -> Processed -> Responded
//
// Any step can move the request to Rejected instead, which is answered with
// the classified error envelope. Outcomes are returned as values; the only
// panic handled here is one escaping a domain operation, which is recovered
// and classified as unknown.
package intake

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"hamon/internal/platform/logger"
	ratelimitmw "hamon/internal/ratelimit/middleware"
	"hamon/internal/ratelimit/models"
	"hamon/internal/ratelimit/ports"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/httputil"
	"hamon/pkg/platform/middleware/metadata"
	"hamon/pkg/platform/middleware/requesttime"
	"hamon/pkg/platform/privacy"
)

// State is the position of a request in the pipeline.
type State string

const (
	StateReceived    State = "received"
	StateRateChecked State = "rate_checked"
	StateValidated   State = "validated"
	StateProcessed   State = "processed"
	StateResponded   State = "responded"
	StateRejected    State = "rejected"
)

// Reporter is the logging collaborator.
type Reporter interface {
	LogError(ctx context.Context, err error, fields logger.Fields)
	LogInfo(ctx context.Context, msg string, fields logger.Fields)
	LogWarning(ctx context.Context, msg string, fields logger.Fields)
}

// Endpoint describes one operation served through the pipeline.
type Endpoint[T any] struct {
	// Name labels logs and metrics, e.g. "contact".
	Name string
	// Status is the success status, 200 when zero.
	Status int
	// RateLimited spends one unit of the caller's budget before validation.
	RateLimited bool
	// Decode turns the untrusted request into a validated payload.
	Decode func(r *http.Request) (*T, error)
	// Process is the domain operation. Its result is the response body.
	Process func(ctx context.Context, r *http.Request, req *T) (any, error)
}

// Outcome is the result of running one request.
type Outcome struct {
	State          State
	Status         int
	Body           any
	Decision       *models.Decision
	Err            error
	Classification httputil.Classification
}

// Pipeline holds the collaborators shared by every endpoint. It keeps no
// per-request state; the limiter owns all cross-request state.
type Pipeline struct {
	limiter  ports.Limiter
	reporter Reporter
	metrics  *Metrics
}

type Option func(*Pipeline)

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a pipeline. limiter may be nil when no endpoint is rate limited.
func New(limiter ports.Limiter, reporter Reporter, opts ...Option) *Pipeline {
	p := &Pipeline{limiter: limiter, reporter: reporter}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle adapts an endpoint to an http.HandlerFunc.
func Handle[T any](p *Pipeline, ep Endpoint[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		out := Run(p, ep, r)
		p.respond(w, out)
		out.State = StateResponded
		if p.metrics != nil {
			p.metrics.observe(ep.Name, out, time.Since(start))
		}
	}
}

// Run drives one request through the pipeline without writing a response.
// The outcome is left in StateProcessed or StateRejected; writing it is the
// move to StateResponded.
func Run[T any](p *Pipeline, ep Endpoint[T], r *http.Request) Outcome {
	ctx := r.Context()
	out := Outcome{State: StateReceived}

	if ep.RateLimited {
		decision, err := p.checkRate(ctx, ep.Name)
		out.Decision = decision
		if err != nil {
			return p.reject(ctx, ep.Name, out, err, nil)
		}
	}
	out.State = StateRateChecked

	req, err := ep.Decode(r)
	if err != nil {
		return p.reject(ctx, ep.Name, out, err, nil)
	}
	out.State = StateValidated

	body, stack, err := process(ctx, ep, r, req)
	if err != nil {
		return p.reject(ctx, ep.Name, out, err, stack)
	}
	out.State = StateProcessed

	out.Status = ep.Status
	if out.Status == 0 {
		out.Status = http.StatusOK
	}
	out.Body = body
	return out
}

// checkRate returns a rate limited error when the caller's budget is spent.
// A limiter that cannot answer lets the request through.
func (p *Pipeline) checkRate(ctx context.Context, endpoint string) (*models.Decision, error) {
	if p.limiter == nil {
		return nil, nil
	}
	clientKey := metadata.ClientKey(ctx)
	decision, err := p.limiter.Check(ctx, clientKey)
	if err != nil {
		p.reporter.LogWarning(ctx, "rate limiter unavailable, admitting request", logger.Fields{
			"endpoint": endpoint,
			"client":   privacy.AnonymizeIP(clientKey),
			"error":    err.Error(),
		})
		if p.metrics != nil {
			p.metrics.LimiterFailOpenTotal.WithLabelValues(endpoint).Inc()
		}
		return nil, nil
	}
	if !decision.Allowed {
		return decision, dErrors.New(dErrors.CodeRateLimited, httputil.MessageRateLimited)
	}
	return decision, nil
}

// panicError carries a value recovered from a domain operation.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic in domain operation: %v", e.value)
}

func process[T any](ctx context.Context, ep Endpoint[T], r *http.Request, req *T) (body any, stack []byte, err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			body, stack, err = nil, debug.Stack(), &panicError{value: v}
		}
	}()
	body, err = ep.Process(ctx, r, req)
	return body, nil, err
}

func (p *Pipeline) reject(ctx context.Context, endpoint string, out Outcome, err error, stack []byte) Outcome {
	c := httputil.Classify(err)
	if c.Kind == httputil.KindUnknown {
		fields := logger.Fields{
			"kind":      string(c.Kind),
			"endpoint":  endpoint,
			"state":     string(out.State),
			"timestamp": requesttime.Now(ctx).UTC().Format(time.RFC3339Nano),
		}
		if stack != nil {
			fields["stack"] = string(stack)
		}
		p.reporter.LogError(ctx, err, fields)
	}
	out.State = StateRejected
	out.Status = c.Status
	out.Err = err
	out.Classification = c
	out.Body = httputil.ErrorResponse{Error: c.Envelope}
	return out
}

func (p *Pipeline) respond(w http.ResponseWriter, out Outcome) {
	ratelimitmw.WriteHeaders(w, out.Decision)
	httputil.WriteJSON(w, out.Status, out.Body)
}
