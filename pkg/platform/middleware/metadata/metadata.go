// Package metadata resolves the caller's address and user agent once per
// request and stores them on the context. The address doubles as the rate
// limit identity.
package metadata

import (
	"context"
	"net/http"
	"net/netip"
	"strings"

	"hamon/pkg/requestcontext"
)

// MaxForwardedValueLength caps the forwarded client value kept as a key.
// Longer values are cut, so the caller keeps a bucket of its own.
const MaxForwardedValueLength = 500

// UnknownClient is the key for callers with no resolvable address. They
// share one rate limit bucket.
const UnknownClient = "unknown"

const headerForwardedFor = "X-Forwarded-For"

// Config controls how much of X-Forwarded-For is believed.
//
// With no TrustedProxies the first forwarded value is used verbatim and a
// missing header resolves to UnknownClient. With TrustedProxies set the
// forwarded value is only honoured when the peer sits inside one of them.
type Config struct {
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies reads a comma-separated CIDR list; blank items are skipped.
func ParseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(part)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

type Middleware struct {
	trusted []netip.Prefix
}

// NewMiddleware accepts a nil config, meaning no trusted proxies.
func NewMiddleware(cfg *Config) *Middleware {
	m := &Middleware{}
	if cfg != nil {
		m.trusted = cfg.TrustedProxies
	}
	return m
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientAddress(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientKey is the rate limit identity stored by Handler.
func ClientKey(ctx context.Context) string {
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		return ip
	}
	return UnknownClient
}

func (m *Middleware) clientAddress(r *http.Request) string {
	forwarded := firstForwarded(r.Header.Get(headerForwardedFor))

	if len(m.trusted) == 0 {
		if forwarded == "" {
			return UnknownClient
		}
		return forwarded
	}

	peer, ok := peerAddr(r.RemoteAddr)
	if !ok {
		return UnknownClient
	}
	if forwarded == "" || !m.fromTrustedProxy(peer) {
		return peer.String()
	}
	client, err := netip.ParseAddr(forwarded)
	if err != nil {
		return peer.String()
	}
	return client.String()
}

func (m *Middleware) fromTrustedProxy(addr netip.Addr) bool {
	for _, prefix := range m.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func firstForwarded(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first = strings.TrimSpace(first)
	if len(first) > MaxForwardedValueLength {
		first = first[:MaxForwardedValueLength]
	}
	return first
}

// peerAddr accepts "ip:port", "[v6]:port" or a bare address.
func peerAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(strings.Trim(remote, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
