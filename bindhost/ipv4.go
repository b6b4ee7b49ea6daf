package bindhost

import (
	"strconv"
	"strings"
)

// IsValidIPv4 reports whether host is a dotted-quad IPv4 address in canonical
// decimal form. Leading zeros, signs and other alternate spellings are
// rejected: every octet must round-trip through its decimal string.
func IsValidIPv4(host string) bool {
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 || strconv.Itoa(n) != part {
			return false
		}
	}

	return true
}
