package prometheus_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abczzz13/gatewaynet"
	"github.com/abczzz13/gatewaynet/bindhost"
	gwprom "github.com/abczzz13/gatewaynet/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
)

func counterValue(registry *prom.Registry, metricName string, labels map[string]string) float64 {
	families, err := registry.Gather()
	if err != nil {
		panic(err)
	}

	for _, family := range families {
		if family.GetName() != metricName {
			continue
		}

	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}

	panic(fmt.Sprintf("counter %q with labels %v not found", metricName, labels))
}

func ExampleWithMetrics() {
	resolver, err := gatewaynet.New(gwprom.WithMetrics())
	if err != nil {
		panic(err)
	}

	resolution, ok := resolver.ResolveRequest(&http.Request{
		RemoteAddr: "1.1.1.1:12345",
		Header:     make(http.Header),
	})
	if !ok {
		panic("no client IP")
	}

	fmt.Println(resolution.IP, resolution.Source)
	// Output: 1.1.1.1 remote_addr
}

func ExampleWithRegisterer() {
	registry := prom.NewRegistry()

	resolver, err := gatewaynet.New(gwprom.WithRegisterer(registry))
	if err != nil {
		panic(err)
	}

	resolver.ResolveRequest(&http.Request{
		RemoteAddr: "1.1.1.1:12345",
		Header:     make(http.Header),
	})

	fmt.Printf("%.0f\n", counterValue(registry, "gateway_client_ip_resolution_total", map[string]string{
		"source": gatewaynet.SourceRemoteAddr,
		"result": "success",
	}))
	// Output: 1
}

func ExampleWithBindRegisterer() {
	registry := prom.NewRegistry()

	resolver, err := bindhost.New(gwprom.WithBindRegisterer(registry))
	if err != nil {
		panic(err)
	}

	host := resolver.ResolveBindHost(context.Background(), bindhost.ModeLAN, "")

	fmt.Println(host)
	fmt.Printf("%.0f\n", counterValue(registry, "gateway_bind_resolution_total", map[string]string{
		"mode": "lan",
		"host": host,
	}))
	// Output:
	// 0.0.0.0
	// 1
}

func ExampleNewWithRegisterer() {
	registry := prom.NewRegistry()

	metrics, err := gwprom.NewWithRegisterer(registry)
	if err != nil {
		panic(err)
	}

	resolver, err := gatewaynet.New(gatewaynet.WithMetrics(metrics))
	if err != nil {
		panic(err)
	}

	req := &http.Request{
		RemoteAddr: "203.0.113.9:12345",
		Header:     make(http.Header),
	}
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	resolver.ResolveRequest(req)

	fmt.Printf("%.0f\n", counterValue(registry, "gateway_client_ip_security_events_total", map[string]string{
		"event": "untrusted_proxy",
	}))
	// Output: 1
}
