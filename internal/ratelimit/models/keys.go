package models

import (
	"strings"
)

// KeyPrefix scopes a rate limit key by what identifies the caller.
type KeyPrefix string

const (
	KeyPrefixIP KeyPrefix = "ip"
)

// UnknownClient is the shared identity of callers with no resolvable address.
const UnknownClient = "unknown"

// NewClientKey builds the storage key for a client identity. Empty identities
// collapse into the shared UnknownClient bucket.
func NewClientKey(clientKey string) string {
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = UnknownClient
	}
	return string(KeyPrefixIP) + ":" + sanitizeKeySegment(clientKey)
}

// sanitizeKeySegment escapes the ':' delimiter so a forwarded value such as
// "1.2.3.4:admin" cannot land in another key's bucket. '_' is escaped first
// so the mapping stays injective:
//
//   - "a:b"  -> "a_cb"
//   - "a_b"  -> "a__b"
//   - "a_:b" -> "a___cb"
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}
