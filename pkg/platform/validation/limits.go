package validation

import (
	"fmt"

	dErrors "hamon/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the default request body cap (64 KB).
	MaxBodySize = 64 * 1024
)

// Catalog listing limits
const (
	// DefaultPage is the first page of a listing.
	DefaultPage = 1

	// DefaultPageLimit is the page size used when the caller sends none.
	DefaultPageLimit = 10

	// MaxPageLimit bounds the page size a caller may ask for.
	MaxPageLimit = 100

	// MaxSearchLength bounds the free-text catalog search term.
	MaxSearchLength = 100
)

// Sword specification limits
const (
	// MaxSpecifications is the maximum number of specification entries per sword.
	MaxSpecifications = 50

	// MaxSpecificationLength is the maximum length of one specification key or value.
	MaxSpecificationLength = 200
)

// CheckMapSize validates that a map does not exceed the maximum number of entries.
func CheckMapSize(fieldName string, size, max int) error {
	if size > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachEntryLength validates every key and value of a string map.
func CheckEachEntryLength(fieldName string, entries map[string]string, max int) error {
	for k, v := range entries {
		if len(k) > max || len(v) > max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s entry %q exceeds max length of %d", fieldName, k, max))
		}
	}
	return nil
}

// PageCount returns how many pages of size limit hold total items.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
