package gatewaynet

const (
	// SourceForwardedFor resolves from the X-Forwarded-For header.
	SourceForwardedFor = "forwarded_for"
	// SourceRealIP resolves from the X-Real-IP header.
	SourceRealIP = "real_ip"
	// SourceRemoteAddr resolves from the socket peer address.
	SourceRemoteAddr = "remote_addr"
)

const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

// Resolution is the outcome of client IP resolution.
type Resolution struct {
	// IP is the normalized client address.
	IP string
	// Source names where IP came from.
	Source string
	// TrustedPeer reports whether the immediate peer is a trusted proxy.
	TrustedPeer bool
	// Peer is the normalized immediate peer address.
	Peer string
}

// IsLocal reports whether the resolved client address belongs to this machine.
func (r Resolution) IsLocal(overlay OverlayNetwork) bool {
	return IsLocal(r.IP, overlay)
}
