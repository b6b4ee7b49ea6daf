package gatewaynet

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNew_DefaultConfig(t *testing.T) {
	resolver := mustNewResolver(t)

	if resolver.TrustedProxies().Len() != 0 {
		t.Fatalf("default trusted proxies = %d, want 0", resolver.TrustedProxies().Len())
	}
	if _, ok := resolver.config.logger.(noopLogger); !ok {
		t.Fatalf("default logger = %T, want noopLogger", resolver.config.logger)
	}
	if _, ok := resolver.config.metrics.(noopMetrics); !ok {
		t.Fatalf("default metrics = %T, want noopMetrics", resolver.config.metrics)
	}
}

func TestNew_OptionValidation(t *testing.T) {
	factoryErr := errors.New("factory failed")

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "nil logger", opts: []Option{WithLogger(nil)}, wantErr: "logger cannot be nil"},
		{name: "nil metrics", opts: []Option{WithMetrics(nil)}, wantErr: "metrics cannot be nil"},
		{name: "typed nil metrics", opts: []Option{WithMetrics((*mockMetrics)(nil))}, wantErr: "metrics cannot be nil"},
		{name: "nil metrics factory", opts: []Option{WithMetricsFactory(nil)}, wantErr: "metrics factory cannot be nil"},
		{
			name:    "factory error",
			opts:    []Option{WithMetricsFactory(func() (Metrics, error) { return nil, factoryErr })},
			wantErr: "factory failed",
		},
		{
			name:    "factory returns nil",
			opts:    []Option{WithMetricsFactory(func() (Metrics, error) { return nil, nil })},
			wantErr: "metrics cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if err == nil {
				t.Fatal("New() error = nil")
			}
			if !strings.HasPrefix(err.Error(), "invalid configuration: ") {
				t.Fatalf("error = %q, want invalid configuration prefix", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_MetricsFactoryError_IsWrapped(t *testing.T) {
	factoryErr := errors.New("factory failed")

	_, err := New(WithMetricsFactory(func() (Metrics, error) { return nil, factoryErr }))
	if !errors.Is(err, factoryErr) {
		t.Fatalf("error = %v, want wrapped factory error", err)
	}
}

func TestMetricsOptions_Precedence_LastWins(t *testing.T) {
	t.Run("metrics after factory", func(t *testing.T) {
		calls := 0
		custom := newMockMetrics()

		resolver := mustNewResolver(t,
			WithMetricsFactory(func() (Metrics, error) {
				calls++
				return newMockMetrics(), nil
			}),
			WithMetrics(custom),
		)

		resolver.Resolve(context.Background(), "1.1.1.1", "", "")

		if calls != 0 {
			t.Fatalf("factory calls = %d, want 0", calls)
		}
		if got := custom.resolutionCount(SourceRemoteAddr); got != 1 {
			t.Fatalf("custom resolutions = %d, want 1", got)
		}
	})

	t.Run("factory after metrics", func(t *testing.T) {
		calls := 0
		custom := newMockMetrics()
		fromFactory := newMockMetrics()

		resolver := mustNewResolver(t,
			WithMetrics(custom),
			WithMetricsFactory(func() (Metrics, error) {
				calls++
				return fromFactory, nil
			}),
		)

		resolver.Resolve(context.Background(), "1.1.1.1", "", "")

		if calls != 1 {
			t.Fatalf("factory calls = %d, want 1", calls)
		}
		if got := custom.resolutionCount(SourceRemoteAddr); got != 0 {
			t.Fatalf("custom resolutions = %d, want 0", got)
		}
		if got := fromFactory.resolutionCount(SourceRemoteAddr); got != 1 {
			t.Fatalf("factory resolutions = %d, want 1", got)
		}
	})
}

func TestTrustProxies_MergesUniqueEntries(t *testing.T) {
	resolver := mustNewResolver(t,
		TrustLoopbackProxy(),
		TrustProxies("127.0.0.0/8", "10.0.0.1"),
		TrustLoopbackProxy(),
	)

	got := resolver.config.trustedProxyEntries
	want := []string{"127.0.0.0/8", "::1", "10.0.0.1"}
	if len(got) != len(want) {
		t.Fatalf("trusted entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trusted entries = %v, want %v", got, want)
		}
	}
}

func TestTrustProxies_CopiesInput(t *testing.T) {
	entries := []string{"10.0.0.1"}
	opt := TrustProxies(entries...)
	entries[0] = "203.0.113.9"

	resolver := mustNewResolver(t, opt)
	if resolver.IsTrustedProxy("203.0.113.9") {
		t.Fatal("mutating the input slice changed the configured entries")
	}
	if !resolver.IsTrustedProxy("10.0.0.1") {
		t.Fatal("configured entry 10.0.0.1 is not trusted")
	}
}

func TestPresetOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		trusted []string
		denied  []string
	}{
		{
			name:    "loopback",
			opt:     TrustLoopbackProxy(),
			trusted: []string{"127.0.0.1", "::1"},
			denied:  []string{"10.0.0.1", "100.64.0.1"},
		},
		{
			name:    "private ranges",
			opt:     TrustPrivateProxyRanges(),
			trusted: []string{"10.1.1.1", "172.20.0.1", "192.168.5.5"},
			denied:  []string{"172.32.0.1", "127.0.0.1"},
		},
		{
			name:    "tailnet range",
			opt:     TrustTailnetProxyRange(),
			trusted: []string{"100.64.0.1", "100.127.255.254"},
			denied:  []string{"100.128.0.1", "10.0.0.1"},
		},
		{
			name:    "all",
			opt:     TrustAllProxies(),
			trusted: []string{"203.0.113.9", "2001:db8::1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := mustNewResolver(t, tt.opt)

			for _, ip := range tt.trusted {
				if !resolver.IsTrustedProxy(ip) {
					t.Fatalf("IsTrustedProxy(%q) = false, want true", ip)
				}
			}
			for _, ip := range tt.denied {
				if resolver.IsTrustedProxy(ip) {
					t.Fatalf("IsTrustedProxy(%q) = true, want false", ip)
				}
			}
		})
	}
}
