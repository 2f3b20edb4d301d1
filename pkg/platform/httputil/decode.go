package httputil

import (
	"errors"
	"io"
	"net/http"

	dErrors "hamon/pkg/domain-errors"
)

// CodePayloadTooLarge is returned when the body exceeds the configured cap.
const CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"

// ReadBody reads the whole request body. A body cut off by
// http.MaxBytesReader becomes a 413 domain failure; any other read error is
// returned unchanged and classifies as unknown.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &dErrors.Failure{
				Status:  http.StatusRequestEntityTooLarge,
				Code:    CodePayloadTooLarge,
				Message: "Request body too large",
				Err:     err,
			}
		}
		return nil, err
	}
	return raw, nil
}

// Validatable is implemented by request types with rules beyond struct tags.
type Validatable interface {
	Validate() error
}

// PrepareRequest runs the Validate hook of a decoded request. It never
// rewrites the request. Validate errors that are not already domain errors
// are reported as validation failures.
func PrepareRequest(req any) error {
	v, ok := req.(Validatable)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.New(dErrors.CodeValidation, err.Error())
}
