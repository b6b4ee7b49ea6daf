package gatewaynet

import "strings"

// ParseForwardedForClientIP returns the leftmost entry of an X-Forwarded-For
// value, with any port stripped and normalized. The leftmost entry is the
// original client as recorded by the hop nearest to it:
//
//	ParseForwardedForClientIP("1.2.3.4:5555, 9.9.9.9") // "1.2.3.4", true
//
// It does not check that the entry is an IP literal.
func ParseForwardedForClientIP(forwardedFor string) (string, bool) {
	first, _, _ := strings.Cut(forwardedFor, ",")
	raw := strings.TrimSpace(first)
	if raw == "" {
		return "", false
	}

	return Normalize(StripPort(raw))
}

// ParseRealIP returns the X-Real-IP value with any port stripped and
// normalized.
func ParseRealIP(realIP string) (string, bool) {
	raw := strings.TrimSpace(realIP)
	if raw == "" {
		return "", false
	}

	return Normalize(StripPort(raw))
}
