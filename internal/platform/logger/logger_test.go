package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamon/pkg/requestcontext"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestReporter(t *testing.T) {
	ctx := requestcontext.WithRequestID(context.Background(), "req-42")

	t.Run("LogError records type chain and stack", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporter(NewWithWriter(&buf, "info"))

		root := errors.New("connection reset")
		r.LogError(ctx, fmt.Errorf("save inquiry: %w", root), Fields{"endpoint": "/api/inquiries"})

		entry := decodeEntry(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "save inquiry: connection reset", entry["error"])
		assert.Equal(t, "*fmt.wrapError", entry["error_type"])
		assert.Equal(t, []any{"save inquiry: connection reset", "connection reset"}, entry["error_chain"])
		assert.NotEmpty(t, entry["stack"])
		assert.Equal(t, "/api/inquiries", entry["endpoint"])
		assert.Equal(t, "req-42", entry["request_id"])
	})

	t.Run("caller stack wins", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporter(NewWithWriter(&buf, "info"))
		r.LogError(ctx, errors.New("boom"), Fields{"stack": "panic stack"})

		assert.Equal(t, "panic stack", decodeEntry(t, &buf)["stack"])
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		NewReporter(NewWithWriter(&buf, "info")).LogError(ctx, nil, nil)
		assert.Zero(t, buf.Len())
	})

	t.Run("LogWarning and LogInfo carry fields", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporter(NewWithWriter(&buf, "info"))

		r.LogWarning(ctx, "rate limiter unavailable", Fields{"client": "203.0.113.0"})
		entry := decodeEntry(t, &buf)
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "203.0.113.0", entry["client"])

		buf.Reset()
		r.LogInfo(context.Background(), "contact form submission received", Fields{"interest": "katana"})
		entry = decodeEntry(t, &buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "katana", entry["interest"])
		assert.NotContains(t, entry, "request_id")
	})

	t.Run("level filters entries", func(t *testing.T) {
		var buf bytes.Buffer
		NewReporter(NewWithWriter(&buf, "warn")).LogInfo(ctx, "dropped", nil)
		assert.Zero(t, buf.Len())
	})
}
