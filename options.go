package gatewaynet

import "slices"

// TrustProxies adds trusted proxy entries: "*", IPv4 CIDR blocks such as
// "10.0.0.0/8", or single addresses.
//
// Malformed entries are accepted and never match; use
// ValidateTrustedProxies to reject them up front.
func TrustProxies(entries ...string) Option {
	entries = slices.Clone(entries)

	return func(c *config) error {
		addTrustedProxyEntries(c, entries...)
		return nil
	}
}

// TrustAllProxies trusts every peer. Only use it when the gateway is
// unreachable except through proxies you control.
func TrustAllProxies() Option {
	return TrustProxies(Wildcard)
}

// TrustLoopbackProxy trusts a reverse proxy running on the same host.
func TrustLoopbackProxy() Option {
	return TrustProxies(loopbackProxyEntries...)
}

// TrustPrivateProxyRanges trusts RFC 1918 private ranges.
func TrustPrivateProxyRanges() Option {
	return TrustProxies(privateProxyEntries...)
}

// TrustTailnetProxyRange trusts peers in the overlay network's shared address
// space (100.64.0.0/10).
func TrustTailnetProxyRange() Option {
	return TrustProxies(tailnetProxyEntries...)
}

// WithOverlayNetwork sets the overlay network used by Resolver.IsLocal.
func WithOverlayNetwork(overlay OverlayNetwork) Option {
	return func(c *config) error {
		c.overlay = overlay
		return nil
	}
}

// WithLogger sets the logger implementation used for warning events.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked once, after all options have been applied.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return errNilMetricsFactory
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}
