package bindhost

import (
	"context"
	"fmt"
	"strings"
)

const (
	// LoopbackIPv4 is the IPv4 loopback bind host.
	LoopbackIPv4 = "127.0.0.1"
	// LoopbackIPv6 is the IPv6 loopback bind host.
	LoopbackIPv6 = "::1"
	// AllInterfaces binds every IPv4 interface.
	AllInterfaces = "0.0.0.0"
)

const (
	fallbackEvent = "bind_fallback"
)

// Plan is the outcome of bind resolution.
type Plan struct {
	Mode        Mode
	BindHost    string
	ListenHosts []string
}

// Resolver chooses the listener bind address for a bind policy. It never
// fails: every path ends in a concrete host, with AllInterfaces as the last
// resort.
type Resolver struct {
	config *config
}

// New creates a Resolver from one or more Option builders.
func New(opts ...Option) (*Resolver, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Resolver{config: cfg}, nil
}

// Resolve computes the bind host and listen hosts for cfg.
func (r *Resolver) Resolve(ctx context.Context, cfg Config) Plan {
	bindHost := r.ResolveBindHost(ctx, cfg.Mode, cfg.CustomHost)
	return Plan{
		Mode:        cfg.Mode,
		BindHost:    bindHost,
		ListenHosts: r.ResolveListenHosts(ctx, bindHost),
	}
}

// ResolveBindHost returns the address the listener should bind to:
//
//   - ModeLoopback: 127.0.0.1 if bindable, else 0.0.0.0
//   - ModeTailnet: overlay IPv4 if present and bindable, else 127.0.0.1 if
//     bindable, else 0.0.0.0
//   - ModeLAN: 0.0.0.0 without probing
//   - ModeCustom: customHost if it is a valid IPv4 address and bindable,
//     else 0.0.0.0
//   - ModeAuto: 127.0.0.1 if bindable, else 0.0.0.0
//   - anything else: 0.0.0.0, or the ModeLoopback result with
//     WithStrictUnknownMode
func (r *Resolver) ResolveBindHost(ctx context.Context, mode Mode, customHost string) string {
	if ctx == nil {
		ctx = context.Background()
	}

	host := r.resolveBindHost(ctx, mode, customHost)
	r.config.metrics.RecordBindResolution(mode.String(), host)
	return host
}

func (r *Resolver) resolveBindHost(ctx context.Context, mode Mode, customHost string) string {
	switch mode {
	case ModeLoopback, ModeAuto:
		return r.loopbackOrAll(ctx, mode)

	case ModeTailnet:
		if ip, ok := r.overlayIPv4(); ok {
			if r.canBind(ctx, ip) {
				return ip
			}
			r.logFallback(ctx, mode, ip, LoopbackIPv4, "overlay network address is not bindable")
		} else {
			r.logFallback(ctx, mode, "", LoopbackIPv4, "no overlay network address found")
		}
		return r.loopbackOrAll(ctx, mode)

	case ModeLAN:
		return AllInterfaces

	case ModeCustom:
		host := strings.TrimSpace(customHost)
		if host == "" {
			r.logFallback(ctx, mode, host, AllInterfaces, "custom bind host is empty")
			return AllInterfaces
		}
		if !IsValidIPv4(host) {
			r.logFallback(ctx, mode, host, AllInterfaces, "custom bind host is not a valid IPv4 address")
			return AllInterfaces
		}
		if !r.canBind(ctx, host) {
			r.logFallback(ctx, mode, host, AllInterfaces, "custom bind host is not bindable")
			return AllInterfaces
		}
		return host

	default:
		if r.config.strictUnknownMode {
			return r.loopbackOrAll(ctx, mode)
		}
		r.logFallback(ctx, mode, "", AllInterfaces, "unknown bind mode")
		return AllInterfaces
	}
}

func (r *Resolver) loopbackOrAll(ctx context.Context, mode Mode) string {
	if r.canBind(ctx, LoopbackIPv4) {
		return LoopbackIPv4
	}

	r.logFallback(ctx, mode, LoopbackIPv4, AllInterfaces, "loopback address is not bindable")
	return AllInterfaces
}

// ResolveListenHosts expands a bind host into the hosts the listener must
// bind. IPv4 loopback gains IPv6 loopback when that is bindable; any other
// host is returned alone.
func (r *Resolver) ResolveListenHosts(ctx context.Context, bindHost string) []string {
	if bindHost != LoopbackIPv4 {
		return []string{bindHost}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if r.canBind(ctx, LoopbackIPv6) {
		return []string{bindHost, LoopbackIPv6}
	}

	return []string{bindHost}
}

func (r *Resolver) canBind(ctx context.Context, host string) bool {
	ok := r.config.prober.CanBind(ctx, host)
	r.config.metrics.RecordProbe(host, ok)
	return ok
}

func (r *Resolver) overlayIPv4() (string, bool) {
	if isNilInterface(r.config.overlay) {
		return "", false
	}

	ip, ok := r.config.overlay.PrimaryIPv4()
	ip = strings.TrimSpace(ip)
	if !ok || ip == "" {
		return "", false
	}

	return ip, true
}

func (r *Resolver) logFallback(ctx context.Context, mode Mode, host, fallback, msg string) {
	r.config.logger.WarnContext(ctx, msg,
		"event", fallbackEvent,
		"mode", mode.String(),
		"host", host,
		"fallback", fallback,
	)
}

// ResolveBindHost resolves with a default Resolver that probes real sockets
// and has no overlay network.
func ResolveBindHost(ctx context.Context, mode Mode, customHost string) string {
	return defaultResolver().ResolveBindHost(ctx, mode, customHost)
}

// ResolveListenHosts expands bindHost with a default Resolver.
func ResolveListenHosts(ctx context.Context, bindHost string) []string {
	return defaultResolver().ResolveListenHosts(ctx, bindHost)
}

func defaultResolver() *Resolver {
	return &Resolver{config: defaultConfig()}
}
