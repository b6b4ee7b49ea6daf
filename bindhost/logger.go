package bindhost

import "context"

// Logger records bind fallbacks emitted by Resolver.
//
// The interface mirrors slog's WarnContext signature, so *slog.Logger can be
// used directly.
type Logger interface {
	WarnContext(ctx context.Context, msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) WarnContext(context.Context, string, ...any) {}

// Metrics records bind probe and resolution outcomes.
type Metrics interface {
	// RecordProbe is called after every bind probe.
	RecordProbe(host string, ok bool)
	// RecordBindResolution is called with the final host chosen for mode.
	RecordBindResolution(mode, host string)
}

type noopMetrics struct{}

func (noopMetrics) RecordProbe(string, bool) {}

func (noopMetrics) RecordBindResolution(string, string) {}
