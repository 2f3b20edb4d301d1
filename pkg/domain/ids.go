// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "hamon/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing SwordID where InquiryID is expected.
// All of them use the collision-resistant "c..." form accepted by the cuid rule.
type (
	SwordID      string
	InquiryID    string
	SubmissionID string
	UserID       string
)

var idPattern = regexp.MustCompile(`^c[a-z0-9]{8,}$`)

// newID returns "c" followed by the 32 hex digits of a time-ordered UUIDv7.
func newID() string {
	return "c" + strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

func NewSwordID() SwordID           { return SwordID(newID()) }
func NewInquiryID() InquiryID       { return InquiryID(newID()) }
func NewSubmissionID() SubmissionID { return SubmissionID(newID()) }
func NewUserID() UserID             { return UserID(newID()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseSwordID(s string) (SwordID, error) {
	id, err := parseID(s, "sword ID")
	return SwordID(id), err
}

func ParseInquiryID(s string) (InquiryID, error) {
	id, err := parseID(s, "inquiry ID")
	return InquiryID(id), err
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseID(s, "user ID")
	return UserID(id), err
}

// String methods - for logging and debugging.

func (id SwordID) String() string      { return string(id) }
func (id InquiryID) String() string    { return string(id) }
func (id SubmissionID) String() string { return string(id) }
func (id UserID) String() string       { return string(id) }

// IsNil checks - used for service-layer validation.

func (id SwordID) IsNil() bool   { return id == "" }
func (id InquiryID) IsNil() bool { return id == "" }
func (id UserID) IsNil() bool    { return id == "" }

func parseID(s, label string) (string, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, label+" cannot be empty")
	}
	if !idPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid "+label)
	}
	return s, nil
}
