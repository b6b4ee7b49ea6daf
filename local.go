package gatewaynet

import "strings"

// OverlayNetwork reports this machine's primary addresses on the private
// overlay network (for example a tailnet). Either address may be absent;
// implementations must report absence instead of failing.
type OverlayNetwork interface {
	PrimaryIPv4() (string, bool)
	PrimaryIPv6() (string, bool)
}

// StaticOverlay is an OverlayNetwork with fixed addresses. Empty fields are
// reported as absent.
type StaticOverlay struct {
	IPv4 string
	IPv6 string
}

// PrimaryIPv4 implements OverlayNetwork.
func (s StaticOverlay) PrimaryIPv4() (string, bool) {
	return s.IPv4, s.IPv4 != ""
}

// PrimaryIPv6 implements OverlayNetwork.
func (s StaticOverlay) PrimaryIPv6() (string, bool) {
	return s.IPv6, s.IPv6 != ""
}

// IsLocal reports whether ip belongs to this machine: a loopback address or
// one of the overlay network's primary addresses. A nil overlay only
// recognizes loopback.
func IsLocal(ip string, overlay OverlayNetwork) bool {
	if IsLoopback(ip) {
		return true
	}

	normalized, ok := Normalize(ip)
	if !ok {
		return false
	}
	if IsLoopback(normalized) {
		return true
	}

	if isNilInterface(overlay) {
		return false
	}

	if v4, ok := overlay.PrimaryIPv4(); ok && strings.EqualFold(normalized, strings.TrimSpace(v4)) {
		return true
	}

	if v6, ok := overlay.PrimaryIPv6(); ok && strings.EqualFold(normalized, strings.TrimSpace(v6)) {
		return true
	}

	return false
}
