package gatewaynet

import "slices"

// Option configures a Resolver. Options are applied in order, so a later
// option overrides an earlier one touching the same setting.
type Option func(*config) error

// config is built by New and never changes afterwards.
type config struct {
	trustedProxyEntries []string
	trustedProxies      TrustedProxies

	overlay OverlayNetwork

	logger  Logger
	metrics Metrics

	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

var (
	// loopbackProxyEntries trusts a reverse proxy on the same host.
	loopbackProxyEntries = []string{"127.0.0.0/8", "::1"}

	// privateProxyEntries trusts RFC 1918 ranges commonly used by VM and
	// container reverse proxies.
	privateProxyEntries = []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

	// tailnetProxyEntries trusts the overlay network's shared address space.
	tailnetProxyEntries = []string{"100.64.0.0/10"}
)

// addTrustedProxyEntries appends entries not already configured, keeping
// first-seen order.
func addTrustedProxyEntries(c *config, entries ...string) {
	for _, entry := range entries {
		if !slices.Contains(c.trustedProxyEntries, entry) {
			c.trustedProxyEntries = append(c.trustedProxyEntries, entry)
		}
	}
}

func defaultConfig() *config {
	return &config{
		logger:  noopLogger{},
		metrics: noopMetrics{},
	}
}

func applyOptions(c *config, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}

	return nil
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()

	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	cfg.trustedProxies = ParseTrustedProxies(cfg.trustedProxyEntries)

	if cfg.useMetricsFactory {
		if cfg.metricsFactory == nil {
			return nil, errNilMetricsFactory
		}

		metrics, err := cfg.metricsFactory()
		if err != nil {
			return nil, err
		}
		cfg.metrics = metrics
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
