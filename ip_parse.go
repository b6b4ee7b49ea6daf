package gatewaynet

import (
	"net/netip"
	"strings"
)

const ipv4MappedPrefix = "::ffff:"

// Normalize canonicalizes a textual IP address so it can be compared with
// other normalized values. It handles:
//   - Leading/trailing whitespace: "  192.168.1.1  "
//   - Case: "2001:DB8::1" becomes "2001:db8::1"
//   - IPv4-mapped IPv6: "::ffff:192.168.1.1" becomes "192.168.1.1"
//
// Normalize does not strip ports or brackets; use StripPort first for values
// taken from headers or socket addresses. The second return value is false
// for empty input. Normalize is idempotent.
func Normalize(ip string) (string, bool) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return "", false
	}

	return unmapIPv4(strings.ToLower(ip)), true
}

// unmapIPv4 unwraps "::ffff:a.b.c.d" to "a.b.c.d". Hex-form mapped addresses
// are left as-is.
func unmapIPv4(ip string) string {
	rest, ok := strings.CutPrefix(ip, ipv4MappedPrefix)
	if !ok || !isIPv4Literal(rest) {
		return ip
	}

	return rest
}

// StripPort removes an optional port from ip:
//   - "[2001:db8::1]:8080" and "[2001:db8::1]" yield "2001:db8::1"
//   - "192.0.2.1:8080" yields "192.0.2.1"
//
// Values that already parse as an IP literal are returned unchanged, so bare
// IPv6 addresses are never mistaken for host:port pairs.
func StripPort(ip string) string {
	if strings.HasPrefix(ip, "[") {
		if end := strings.IndexByte(ip, ']'); end != -1 {
			return ip[1:end]
		}
	}

	if isIPLiteral(ip) {
		return ip
	}

	lastColon := strings.LastIndexByte(ip, ':')
	if lastColon > -1 && strings.IndexByte(ip, ':') == lastColon && strings.Contains(ip, ".") {
		if candidate := ip[:lastColon]; isIPv4Literal(candidate) {
			return candidate
		}
	}

	return ip
}

// IsLoopback reports whether ip is an IPv4 loopback address (127.0.0.0/8),
// the IPv6 loopback address, or the IPv4-mapped form of an IPv4 loopback
// address.
func IsLoopback(ip string) bool {
	if ip == "" {
		return false
	}

	switch {
	case ip == "127.0.0.1", ip == "::1":
		return true
	case strings.HasPrefix(ip, "127."):
		return true
	case strings.HasPrefix(ip, ipv4MappedPrefix+"127."):
		return true
	default:
		return false
	}
}

// IsLoopbackHost reports whether a bind host is a loopback address.
func IsLoopbackHost(host string) bool {
	return IsLoopback(host)
}

func isIPLiteral(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

func isIPv4Literal(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// parseClientIP strips any port from raw and normalizes it, rejecting values
// that are not IP literals.
func parseClientIP(raw string) (string, bool) {
	ip, ok := Normalize(StripPort(strings.TrimSpace(raw)))
	if !ok || !isIPLiteral(ip) {
		return "", false
	}

	return ip, true
}
