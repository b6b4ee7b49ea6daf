package gatewaynet

import "context"

// Logger receives warnings about suspicious forwarding headers and peer
// addresses seen by Resolver. A Resolver calls it from request goroutines,
// so implementations must tolerate concurrent calls.
//
// ctx is the request context passed to Resolve or carried by the request,
// which lets handlers pick up trace identifiers. *slog.Logger satisfies
// Logger as-is.
type Logger interface {
	WarnContext(ctx context.Context, msg string, args ...any)
}

// noopLogger discards warnings. It is installed unless WithLogger is used.
type noopLogger struct{}

func (noopLogger) WarnContext(context.Context, string, ...any) {}
