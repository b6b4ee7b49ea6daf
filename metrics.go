package gatewaynet

// Metrics records client IP resolution outcomes and security events emitted
// by Resolver.
//
// Implementations should be safe for concurrent use, as a single Resolver
// instance is typically shared across many goroutines.
type Metrics interface {
	// RecordResolution is called when a source supplies the client IP.
	RecordResolution(source string)
	// RecordResolutionFailure is called when a source is present but does not
	// yield a valid client IP.
	RecordResolutionFailure(source string)
	// RecordSecurityEvent is called when the resolver observes a
	// security-relevant condition.
	RecordSecurityEvent(event string)
}

// noopMetrics is the default Metrics implementation when metrics are not
// explicitly configured.
type noopMetrics struct{}

func (noopMetrics) RecordResolution(string) {}

func (noopMetrics) RecordResolutionFailure(string) {}

func (noopMetrics) RecordSecurityEvent(string) {}
