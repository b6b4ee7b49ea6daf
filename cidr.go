package gatewaynet

import (
	"strconv"
	"strings"
)

// CIDR is an IPv4 address block. Only IPv4 blocks are supported; IPv6 CIDR
// notation never parses and therefore never matches.
type CIDR struct {
	base uint32
	bits int
}

// ParseCIDR parses "a.b.c.d/bits" where bits is an integer in [0,32].
func ParseCIDR(s string) (CIDR, bool) {
	baseText, bitsText, ok := strings.Cut(s, "/")
	if !ok {
		return CIDR{}, false
	}

	bits, ok := parseDecimal(strings.TrimSpace(bitsText))
	if !ok || bits > 32 {
		return CIDR{}, false
	}

	base, ok := parseIPv4Uint32(strings.TrimSpace(baseText))
	if !ok {
		return CIDR{}, false
	}

	return CIDR{base: base, bits: bits}, true
}

// Bits returns the prefix length.
func (c CIDR) Bits() int {
	return c.bits
}

// String returns the block in "a.b.c.d/bits" form. Host bits of the base
// are kept.
func (c CIDR) String() string {
	return formatIPv4(c.base) + "/" + strconv.Itoa(c.bits)
}

// Contains reports whether the IPv4 address ip falls inside the block.
func (c CIDR) Contains(ip string) bool {
	n, ok := parseIPv4Uint32(strings.TrimSpace(ip))
	if !ok {
		return false
	}

	return c.containsUint32(n)
}

func (c CIDR) containsUint32(ip uint32) bool {
	mask := prefixMask(c.bits)
	return ip&mask == c.base&mask
}

// IsInCIDR reports whether the IPv4 address ip is inside cidr
// ("100.64.0.0/24"). Malformed input of either argument yields false.
func IsInCIDR(ip, cidr string) bool {
	block, ok := ParseCIDR(cidr)
	if !ok {
		return false
	}

	return block.Contains(ip)
}

// prefixMask returns the 32-bit network mask for bits. A /0 mask is zero and
// matches every address.
func prefixMask(bits int) uint32 {
	if bits <= 0 {
		return 0
	}
	if bits >= 32 {
		return ^uint32(0)
	}

	return ^uint32(0) << (32 - bits)
}

// parseIPv4Uint32 parses exactly four dot-separated decimal octets in [0,255].
func parseIPv4Uint32(s string) (uint32, bool) {
	var (
		n     uint32
		count int
	)

	for part := range strings.SplitSeq(s, ".") {
		count++
		if count > 4 {
			return 0, false
		}

		octet, ok := parseDecimal(part)
		if !ok || octet > 255 {
			return 0, false
		}

		n = n<<8 | uint32(octet)
	}

	if count != 4 {
		return 0, false
	}

	return n, true
}

// parseDecimal parses a non-empty run of ASCII digits.
func parseDecimal(s string) (int, bool) {
	if s == "" || len(s) > 10 {
		return 0, false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

func formatIPv4(n uint32) string {
	var b strings.Builder
	b.Grow(15)
	for i := 3; i >= 0; i-- {
		b.WriteString(strconv.Itoa(int(n >> (uint(i) * 8) & 0xff)))
		if i > 0 {
			b.WriteByte('.')
		}
	}

	return b.String()
}
