package gatewaynet

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Resolver determines the client IP of inbound gateway requests.
//
// Forwarding headers are honored only when the immediate peer is a trusted
// proxy; otherwise the peer itself is the client. Resolver instances are safe
// for concurrent reuse.
type Resolver struct {
	config *config
}

// New creates a Resolver from one or more Option builders.
func New(opts ...Option) (*Resolver, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Resolver{config: cfg}, nil
}

// TrustedProxies returns the compiled trusted proxy list.
func (r *Resolver) TrustedProxies() TrustedProxies {
	return r.config.trustedProxies
}

// IsTrustedProxy reports whether peerIP is a configured trusted proxy.
func (r *Resolver) IsTrustedProxy(peerIP string) bool {
	return r.config.trustedProxies.Contains(peerIP)
}

// IsLocal reports whether ip belongs to this machine, using the overlay
// network configured with WithOverlayNetwork.
func (r *Resolver) IsLocal(ip string) bool {
	return IsLocal(ip, r.config.overlay)
}

// Resolve resolves the client IP from a socket peer address and the raw
// X-Forwarded-For and X-Real-IP values. The second return value is false when
// remoteAddr is not an IP address (with or without a port).
func (r *Resolver) Resolve(ctx context.Context, remoteAddr, forwardedFor, realIP string) (Resolution, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	return r.resolve(ctx, clientIPInput{
		remoteAddr:   remoteAddr,
		forwardedFor: forwardedFor,
		realIP:       realIP,
	})
}

// ResolveRequest resolves the client IP for an HTTP request.
func (r *Resolver) ResolveRequest(req *http.Request) (Resolution, bool) {
	if req == nil {
		return r.resolve(context.Background(), clientIPInput{})
	}

	return r.resolve(req.Context(), inputFromHeaders(req.RemoteAddr, requestPath(req), req.Header))
}

// ResolveFrom resolves the client IP from framework-agnostic request input.
func (r *Resolver) ResolveFrom(input RequestInput) (Resolution, bool) {
	ctx := requestInputContext(input)
	if isNilInterface(input.Headers) {
		return r.resolve(ctx, clientIPInput{remoteAddr: input.RemoteAddr, path: input.Path})
	}

	return r.resolve(ctx, inputFromHeaders(input.RemoteAddr, input.Path, input.Headers))
}

// ResolveClientIP is the stateless form of Resolver.Resolve. Precedence is
// X-Forwarded-For, then X-Real-IP, then the peer, and headers are consulted
// only when remoteAddr is in trustedProxies.
func ResolveClientIP(remoteAddr, forwardedFor, realIP string, trustedProxies []string) (string, bool) {
	r := &Resolver{config: &config{
		trustedProxies: ParseTrustedProxies(trustedProxies),
		logger:         noopLogger{},
		metrics:        noopMetrics{},
	}}

	resolution, ok := r.resolve(context.Background(), clientIPInput{
		remoteAddr:   remoteAddr,
		forwardedFor: forwardedFor,
		realIP:       realIP,
	})
	return resolution.IP, ok
}

type clientIPInput struct {
	remoteAddr   string
	forwardedFor string
	realIP       string
	path         string

	realIPCount int
}

func (in clientIPInput) hasForwardingHeaders() bool {
	return strings.TrimSpace(in.forwardedFor) != "" || strings.TrimSpace(in.realIP) != ""
}

func (r *Resolver) resolve(ctx context.Context, in clientIPInput) (Resolution, bool) {
	peer, ok := parseClientIP(in.remoteAddr)
	if !ok {
		if strings.TrimSpace(in.remoteAddr) != "" {
			r.config.metrics.RecordSecurityEvent(securityEventInvalidRemoteAddr)
			r.logSecurityWarning(ctx, in, SourceRemoteAddr, securityEventInvalidRemoteAddr, "remote address is not an IP address")
		}
		r.config.metrics.RecordResolutionFailure(SourceRemoteAddr)
		return Resolution{}, false
	}

	if !r.config.trustedProxies.Contains(peer) {
		if in.hasForwardingHeaders() {
			r.config.metrics.RecordSecurityEvent(securityEventUntrustedProxy)
			r.logSecurityWarning(ctx, in, SourceRemoteAddr, securityEventUntrustedProxy, "forwarding headers received from untrusted peer - ignoring them")
		}
		return r.resolved(SourceRemoteAddr, peer, peer, false), true
	}

	if strings.TrimSpace(in.forwardedFor) != "" {
		if ip, ok := ParseForwardedForClientIP(in.forwardedFor); ok && isIPLiteral(ip) {
			return r.resolved(SourceForwardedFor, ip, peer, true), true
		}

		r.config.metrics.RecordSecurityEvent(securityEventInvalidForwardedFor)
		r.config.metrics.RecordResolutionFailure(SourceForwardedFor)
		r.logSecurityWarning(ctx, in, SourceForwardedFor, securityEventInvalidForwardedFor, "X-Forwarded-For from trusted proxy has no valid client address",
			"header", headerForwardedFor,
		)
	}

	if strings.TrimSpace(in.realIP) != "" {
		if in.realIPCount > 1 {
			r.config.metrics.RecordSecurityEvent(securityEventMultipleHeaders)
			r.logSecurityWarning(ctx, in, SourceRealIP, securityEventMultipleHeaders, "multiple X-Real-IP headers received - using the first",
				"header", headerRealIP,
				"header_count", in.realIPCount,
			)
		}

		if ip, ok := ParseRealIP(in.realIP); ok && isIPLiteral(ip) {
			return r.resolved(SourceRealIP, ip, peer, true), true
		}

		r.config.metrics.RecordSecurityEvent(securityEventInvalidRealIP)
		r.config.metrics.RecordResolutionFailure(SourceRealIP)
		r.logSecurityWarning(ctx, in, SourceRealIP, securityEventInvalidRealIP, "X-Real-IP from trusted proxy is not a valid address",
			"header", headerRealIP,
		)
	}

	return r.resolved(SourceRemoteAddr, peer, peer, true), true
}

func (r *Resolver) resolved(source, ip, peer string, trusted bool) Resolution {
	r.config.metrics.RecordResolution(source)
	return Resolution{
		IP:          ip,
		Source:      source,
		TrustedPeer: trusted,
		Peer:        peer,
	}
}

func (r *Resolver) logSecurityWarning(ctx context.Context, in clientIPInput, sourceName, event, msg string, attrs ...any) {
	baseAttrs := []any{
		"event", event,
		"source", sourceName,
		"path", in.path,
		"remote_addr", in.remoteAddr,
	}

	baseAttrs = append(baseAttrs, attrs...)
	r.config.logger.WarnContext(ctx, msg, baseAttrs...)
}

func requestPath(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Path
}
