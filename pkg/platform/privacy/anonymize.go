// Package privacy reduces client identifiers to values safe for access logs.
package privacy

import (
	"net/netip"
	"strings"
)

// AnonymizeIP masks a client address to its network: /24 for IPv4 (including
// IPv4-mapped IPv6) and /48 for IPv6. Empty input and the shared "unknown"
// key return "unknown"; anything that is not an address returns "invalid".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap().WithZone("")

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskEmail keeps the first character of the local part and the domain,
// "jo.smith@example.com" -> "j***@example.com". Input without an "@" is
// fully masked.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return string([]rune(local)[:1]) + "***@" + domain
}
