package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "hamon/pkg/domain-errors"
)

// Public error codes sent in the response envelope.
const (
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeConflict          = "CONFLICT"
	CodeInternalError     = "INTERNAL_SERVER_ERROR"
)

// Caller-facing messages for kinds whose text does not come from the error.
const (
	MessageRateLimited  = "Too many requests. Please try again later."
	MessageInvalid      = "Invalid form data"
	MessageNotFound     = "Resource not found"
	MessageUnauthorized = "Authentication required"
	MessageUnexpected   = "An unexpected error occurred"
)

// Kind is the category an error is classified into.
type Kind string

const (
	KindRateLimited   Kind = "rate_limited"
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
	KindUnauthorized  Kind = "unauthorized"
	KindDomainFailure Kind = "domain_failure"
	KindUnknown       Kind = "unknown"
)

// Envelope is the body of every error response, nested under "error".
type Envelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []dErrors.Violation `json:"details,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error Envelope `json:"error"`
}

// Classification is the result of mapping an error to a response.
type Classification struct {
	Kind     Kind
	Status   int
	Envelope Envelope
}

// Classify maps any error to exactly one response. Unrecognised errors,
// including nil, become KindUnknown with a generic message so internal
// details never reach the caller.
func Classify(err error) Classification {
	var failure *dErrors.Failure
	if errors.As(err, &failure) && failure.Status >= 400 && failure.Status <= 599 && failure.Code != "" {
		return Classification{
			Kind:     KindDomainFailure,
			Status:   failure.Status,
			Envelope: Envelope{Code: failure.Code, Message: messageOr(failure.Message, failure.Code)},
		}
	}

	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		return unknown()
	}

	switch domainErr.Code {
	case dErrors.CodeRateLimited:
		return Classification{
			Kind:     KindRateLimited,
			Status:   http.StatusTooManyRequests,
			Envelope: Envelope{Code: CodeRateLimitExceeded, Message: messageOr(domainErr.Message, MessageRateLimited)},
		}
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvariantViolation:
		return Classification{
			Kind:   KindInvalidInput,
			Status: http.StatusBadRequest,
			Envelope: Envelope{
				Code:    CodeValidationError,
				Message: messageOr(domainErr.Message, MessageInvalid),
				Details: domainErr.Violations,
			},
		}
	case dErrors.CodeNotFound:
		return Classification{
			Kind:     KindNotFound,
			Status:   http.StatusNotFound,
			Envelope: Envelope{Code: CodeNotFound, Message: messageOr(domainErr.Message, MessageNotFound)},
		}
	case dErrors.CodeUnauthorized:
		return Classification{
			Kind:     KindUnauthorized,
			Status:   http.StatusUnauthorized,
			Envelope: Envelope{Code: CodeUnauthorized, Message: messageOr(domainErr.Message, MessageUnauthorized)},
		}
	case dErrors.CodeConflict:
		return Classification{
			Kind:     KindDomainFailure,
			Status:   http.StatusConflict,
			Envelope: Envelope{Code: CodeConflict, Message: messageOr(domainErr.Message, "Conflict")},
		}
	default:
		return unknown()
	}
}

func unknown() Classification {
	return Classification{
		Kind:     KindUnknown,
		Status:   http.StatusInternalServerError,
		Envelope: Envelope{Code: CodeInternalError, Message: MessageUnexpected},
	}
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError classifies err and writes the uniform error envelope.
func WriteError(w http.ResponseWriter, err error) Classification {
	c := Classify(err)
	WriteClassified(w, c)
	return c
}

// WriteClassified writes an already computed classification.
func WriteClassified(w http.ResponseWriter, c Classification) {
	WriteJSON(w, c.Status, ErrorResponse{Error: c.Envelope})
}
