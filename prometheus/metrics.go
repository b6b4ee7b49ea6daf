package prometheus

import (
	"errors"
	"fmt"

	"github.com/abczzz13/gatewaynet"
	"github.com/abczzz13/gatewaynet/bindhost"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	resolutionTotalName = "gateway_client_ip_resolution_total"
	securityEventsName  = "gateway_client_ip_security_events_total"
	bindProbeTotalName  = "gateway_bind_probe_total"
	bindResolutionName  = "gateway_bind_resolution_total"
)

// PrometheusMetrics is a Prometheus-backed implementation of
// gatewaynet.Metrics and bindhost.Metrics.
type PrometheusMetrics struct {
	resolutionTotal *prom.CounterVec
	securityEvents  *prom.CounterVec
	bindProbeTotal  *prom.CounterVec
	bindResolution  *prom.CounterVec
}

var (
	_ gatewaynet.Metrics = (*PrometheusMetrics)(nil)
	_ bindhost.Metrics   = (*PrometheusMetrics)(nil)
)

// WithMetrics returns a gatewaynet option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithMetrics() gatewaynet.Option {
	return WithRegisterer(prom.DefaultRegisterer)
}

// WithRegisterer returns a gatewaynet option that installs Prometheus-backed
// metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithRegisterer(registerer prom.Registerer) gatewaynet.Option {
	return gatewaynet.WithMetricsFactory(func() (gatewaynet.Metrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// WithBindMetrics returns a bindhost option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithBindMetrics() bindhost.Option {
	return WithBindRegisterer(prom.DefaultRegisterer)
}

// WithBindRegisterer returns a bindhost option that installs
// Prometheus-backed metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithBindRegisterer(registerer prom.Registerer) bindhost.Option {
	return bindhost.WithMetricsFactory(func() (bindhost.Metrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// New creates PrometheusMetrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates PrometheusMetrics and registers its collectors on
// the given registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used. If the metrics are
// already registered, existing compatible collectors are reused, so a client IP
// resolver and a bind resolver can share one registry.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	resolutionTotal, err := registerCounterVec(registerer, prom.NewCounterVec(
		prom.CounterOpts{
			Name: resolutionTotalName,
			Help: "Total number of client IP resolutions by source (forwarded_for, real_ip, remote_addr) and result (success, invalid).",
		},
		[]string{"source", "result"},
	), resolutionTotalName)
	if err != nil {
		return nil, err
	}

	securityEvents, err := registerCounterVec(registerer, prom.NewCounterVec(
		prom.CounterOpts{
			Name: securityEventsName,
			Help: "Security-related events during client IP resolution, labeled by event.",
		},
		[]string{"event"},
	), securityEventsName)
	if err != nil {
		return nil, err
	}

	bindProbeTotal, err := registerCounterVec(registerer, prom.NewCounterVec(
		prom.CounterOpts{
			Name: bindProbeTotalName,
			Help: "Total number of bind probes by host and result (ok, unavailable).",
		},
		[]string{"host", "result"},
	), bindProbeTotalName)
	if err != nil {
		return nil, err
	}

	bindResolution, err := registerCounterVec(registerer, prom.NewCounterVec(
		prom.CounterOpts{
			Name: bindResolutionName,
			Help: "Bind host resolutions by configured mode and chosen host.",
		},
		[]string{"mode", "host"},
	), bindResolutionName)
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		resolutionTotal: resolutionTotal,
		securityEvents:  securityEvents,
		bindProbeTotal:  bindProbeTotal,
		bindResolution:  bindResolution,
	}, nil
}

func registerCounterVec(registerer prom.Registerer, collector *prom.CounterVec, metricName string) (*prom.CounterVec, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prom.CounterVec)
			if ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		return nil, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

// RecordResolution increments gateway_client_ip_resolution_total with
// result="success" for the provided source.
func (m *PrometheusMetrics) RecordResolution(source string) {
	m.resolutionTotal.WithLabelValues(source, "success").Inc()
}

// RecordResolutionFailure increments gateway_client_ip_resolution_total with
// result="invalid" for the provided source.
func (m *PrometheusMetrics) RecordResolutionFailure(source string) {
	m.resolutionTotal.WithLabelValues(source, "invalid").Inc()
}

// RecordSecurityEvent increments gateway_client_ip_security_events_total for
// the provided event label.
func (m *PrometheusMetrics) RecordSecurityEvent(event string) {
	m.securityEvents.WithLabelValues(event).Inc()
}

// RecordProbe increments gateway_bind_probe_total.
func (m *PrometheusMetrics) RecordProbe(host string, ok bool) {
	m.bindProbeTotal.WithLabelValues(host, probeResult(ok)).Inc()
}

// RecordBindResolution increments gateway_bind_resolution_total.
func (m *PrometheusMetrics) RecordBindResolution(mode, host string) {
	m.bindResolution.WithLabelValues(mode, host).Inc()
}

func probeResult(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}
