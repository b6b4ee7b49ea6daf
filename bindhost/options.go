package bindhost

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/abczzz13/gatewaynet"
)

// Option configures a Resolver.
type Option func(*config) error

type config struct {
	prober  Prober
	overlay gatewaynet.OverlayNetwork

	probeTimeout    time.Duration
	hasProbeTimeout bool

	strictUnknownMode bool

	logger            Logger
	metrics           Metrics
	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

func defaultConfig() *config {
	return &config{
		prober:  NetProber{},
		logger:  noopLogger{},
		metrics: noopMetrics{},
	}
}

// WithProber replaces the socket-based prober.
func WithProber(prober Prober) Option {
	return func(c *config) error {
		c.prober = prober
		return nil
	}
}

// WithProbeTimeout sets the timeout of a NetProber.
//
// It applies once all options are processed and only when the final prober
// is a NetProber; a Prober set through WithProber is left untouched.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return fmt.Errorf("probe timeout must be >= 0, got %s", timeout)
		}

		c.probeTimeout = timeout
		c.hasProbeTimeout = true
		return nil
	}
}

// WithOverlayNetwork sets the overlay network consulted by ModeTailnet.
func WithOverlayNetwork(overlay gatewaynet.OverlayNetwork) Option {
	return func(c *config) error {
		c.overlay = overlay
		return nil
	}
}

// WithStrictUnknownMode resolves ModeUnknown like ModeLoopback instead of
// binding to all interfaces.
func WithStrictUnknownMode() Option {
	return func(c *config) error {
		c.strictUnknownMode = true
		return nil
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics implementation and discards any factory set
// earlier.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory sets the metrics implementation from a constructor that
// may fail, such as one registering collectors.
//
// The factory runs once, after all options have been applied, and only if no
// later WithMetrics replaced it.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return errors.New("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}

// finalize resolves settings that depend on the full option list.
func (c *config) finalize() error {
	if c.hasProbeTimeout {
		if prober, ok := c.prober.(NetProber); ok {
			prober.Timeout = c.probeTimeout
			c.prober = prober
		}
	}

	if c.useMetricsFactory {
		metrics, err := c.metricsFactory()
		if err != nil {
			return err
		}
		c.metrics = metrics
	}

	return nil
}

func (c *config) validate() error {
	if isNilInterface(c.prober) {
		return errors.New("prober cannot be nil")
	}
	if isNilInterface(c.logger) {
		return errors.New("logger cannot be nil")
	}
	if isNilInterface(c.metrics) {
		return errors.New("metrics cannot be nil")
	}
	return nil
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
