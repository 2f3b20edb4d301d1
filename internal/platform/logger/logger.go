package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"hamon/pkg/requestcontext"
)

// New returns a structured JSON logger on stdout at the given level.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

// ParseLevel maps debug|info|warn|error to a slog level. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fields is the open key/value context attached to a report.
type Fields map[string]any

// Reporter is the logging collaborator handed to request pipelines. Every
// entry carries the request id when the context has one.
type Reporter struct {
	logger *slog.Logger
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// Logger exposes the underlying slog logger.
func (r *Reporter) Logger() *slog.Logger {
	return r.logger
}

// LogError records err with its type, unwrap chain, and a stack trace. A
// "stack" field supplied by the caller replaces the captured one.
func (r *Reporter) LogError(ctx context.Context, err error, fields Fields) {
	if err == nil {
		return
	}
	attrs := []any{
		"error", err.Error(),
		"error_type", fmt.Sprintf("%T", err),
		"error_chain", errorChain(err),
	}
	if _, ok := fields["stack"]; !ok {
		attrs = append(attrs, "stack", string(debug.Stack()))
	}
	r.logger.ErrorContext(ctx, err.Error(), r.attrs(ctx, fields, attrs)...)
}

func (r *Reporter) LogWarning(ctx context.Context, msg string, fields Fields) {
	r.logger.WarnContext(ctx, msg, r.attrs(ctx, fields, nil)...)
}

func (r *Reporter) LogInfo(ctx context.Context, msg string, fields Fields) {
	r.logger.InfoContext(ctx, msg, r.attrs(ctx, fields, nil)...)
}

func (r *Reporter) attrs(ctx context.Context, fields Fields, base []any) []any {
	attrs := base
	if id := requestcontext.RequestID(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, key, fields[key])
	}
	return attrs
}

// errorChain lists the message of every wrapped error, outermost first.
func errorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				chain = append(chain, errorChain(inner)...)
			}
			break
		}
		err = errors.Unwrap(err)
	}
	return chain
}
