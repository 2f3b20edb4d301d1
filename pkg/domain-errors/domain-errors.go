// Package domainerrors carries failures from stores and services to the
// classifier without tying them to HTTP. Only pkg/platform/httputil maps a
// Code to a status.
package domainerrors

import "errors"

// Code is the business-level category of a failure.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeRateLimited        Code = "rate_limited"
	CodeInvariantViolation Code = "invariant_violation"
)

// Violation describes one failed field rule. Field is the name the caller used
// in the payload; Message is safe to show to the caller.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a coded failure. Message is what a caller may see; Err keeps the
// underlying cause for logs.
type Error struct {
	Code       Code
	Message    string
	Err        error
	Violations []Violation
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Code, so errors.Is(err, New(CodeNotFound, ""))
// holds regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewValidation creates a validation error carrying every violated rule.
func NewValidation(msg string, violations []Violation) error {
	return &Error{Code: CodeValidation, Message: msg, Violations: violations}
}

// Wrap attaches code and msg to err. An err that already carries a Code
// keeps it, along with its violations.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err, Violations: existing.Violations}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether the first *Error in err's chain has code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Failure is a deliberate, endpoint-specific failure raised by a domain
// operation. Unlike Error it carries its own response status and public code,
// so operations can express outcomes the shared taxonomy has no row for.
type Failure struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func NewFailure(status int, code, msg string) error {
	return &Failure{Status: status, Code: code, Message: msg}
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Code
}

func (f *Failure) Unwrap() error {
	return f.Err
}
