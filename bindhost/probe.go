package bindhost

import (
	"context"
	"net"
	"time"
)

// DefaultProbeTimeout bounds a single bind probe.
const DefaultProbeTimeout = 2 * time.Second

// Prober reports whether a listening socket can currently be opened on host.
//
// Probing is a point-in-time check: a later real bind can still fail.
type Prober interface {
	CanBind(ctx context.Context, host string) bool
}

// ProbeFunc adapts a function to the Prober interface.
type ProbeFunc func(ctx context.Context, host string) bool

// CanBind implements Prober.
func (f ProbeFunc) CanBind(ctx context.Context, host string) bool {
	if f == nil {
		return false
	}

	return f(ctx, host)
}

// NetProber probes by opening a TCP listener on port 0 of the candidate host
// and closing it immediately.
type NetProber struct {
	// Timeout bounds the wait for the listener. Zero means
	// DefaultProbeTimeout. A probe that times out reports false.
	Timeout time.Duration

	ListenConfig net.ListenConfig
}

type listenResult struct {
	ln  net.Listener
	err error
}

// CanBind implements Prober.
func (p NetProber) CanBind(ctx context.Context, host string) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return false
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan listenResult, 1)
	go func() {
		ln, err := p.ListenConfig.Listen(ctx, "tcp", net.JoinHostPort(host, "0"))
		done <- listenResult{ln: ln, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return false
		}
		_ = res.ln.Close()
		return true
	case <-ctx.Done():
		// The listen call may still complete; release it when it does.
		go func() {
			if res := <-done; res.err == nil {
				_ = res.ln.Close()
			}
		}()
		return false
	}
}

// CanBindToHost probes host with a default NetProber.
func CanBindToHost(ctx context.Context, host string) bool {
	return NetProber{}.CanBind(ctx, host)
}
