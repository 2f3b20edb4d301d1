package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "hamon/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Name string `json:"name"`
}

// validatingRequest implements Validatable
type validatingRequest struct {
	Name string `json:"name"`
}

func (r *validatingRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// violationRequest reports a domain validation error
type violationRequest struct {
	Name      string `json:"name"`
	validated bool
}

func (r *violationRequest) Validate() error {
	r.validated = true
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.NewValidation("Invalid form data", []dErrors.Violation{{Field: "name", Message: "name is required"}})
	}
	return nil
}

func TestReadBody(t *testing.T) {
	t.Run("reads body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		raw, err := ReadBody(req)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"x"}`, string(raw))
	})

	t.Run("oversized body is a 413 failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 16)

		_, err := ReadBody(req)
		require.Error(t, err)

		c := Classify(err)
		assert.Equal(t, KindDomainFailure, c.Kind)
		assert.Equal(t, http.StatusRequestEntityTooLarge, c.Status)
		assert.Equal(t, CodePayloadTooLarge, c.Envelope.Code)
	})

	t.Run("nil body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Body = nil
		raw, err := ReadBody(req)
		require.NoError(t, err)
		assert.Empty(t, raw)
	})
}

func TestPrepareRequest(t *testing.T) {
	t.Run("calls validation", func(t *testing.T) {
		assert.NoError(t, PrepareRequest(&validatingRequest{Name: "test"}))
	})

	t.Run("plain validate error becomes validation error", func(t *testing.T) {
		err := PrepareRequest(&validatingRequest{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("domain error keeps its violations", func(t *testing.T) {
		req := &violationRequest{Name: "   "}
		err := PrepareRequest(req)
		require.Error(t, err)

		var domainErr *dErrors.Error
		require.ErrorAs(t, err, &domainErr)
		assert.Len(t, domainErr.Violations, 1)
		assert.True(t, req.validated)
	})

	t.Run("leaves the request untouched", func(t *testing.T) {
		req := &violationRequest{Name: "  Katana "}
		require.NoError(t, PrepareRequest(req))
		assert.Equal(t, "  Katana ", req.Name)
	})

	t.Run("handles non-validatable types", func(t *testing.T) {
		assert.NoError(t, PrepareRequest(&testRequest{Name: "test"}))
	})
}
