// Package prometheus provides a Prometheus adapter for
// github.com/abczzz13/gatewaynet and its bindhost subpackage.
//
// The package exposes options that install a Prometheus-backed Metrics
// implementation on a client IP resolver or a bind host resolver, using either
// the default registerer or a caller-provided registerer.
package prometheus
