package bindhost

import (
	"context"
	"sync"
	"testing"
)

// fakeProber answers probes from a fixed set of bindable hosts and records
// every host it was asked about.
type fakeProber struct {
	mu       sync.Mutex
	bindable map[string]bool
	probed   []string
}

func newFakeProber(bindable ...string) *fakeProber {
	p := &fakeProber{bindable: make(map[string]bool, len(bindable))}
	for _, host := range bindable {
		p.bindable[host] = true
	}
	return p
}

func (p *fakeProber) CanBind(_ context.Context, host string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probed = append(p.probed, host)
	return p.bindable[host]
}

func (p *fakeProber) probes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	probed := make([]string, len(p.probed))
	copy(probed, p.probed)
	return probed
}

type recordedWarning struct {
	msg   string
	attrs map[string]any
}

type capturedLogger struct {
	mu       sync.Mutex
	warnings []recordedWarning
}

func (l *capturedLogger) WarnContext(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attrs := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs[key] = args[i+1]
		}
	}
	l.warnings = append(l.warnings, recordedWarning{msg: msg, attrs: attrs})
}

func (l *capturedLogger) snapshot() []recordedWarning {
	l.mu.Lock()
	defer l.mu.Unlock()
	warnings := make([]recordedWarning, len(l.warnings))
	copy(warnings, l.warnings)
	return warnings
}

type probeRecord struct {
	host string
	ok   bool
}

type mockMetrics struct {
	mu          sync.Mutex
	probes      []probeRecord
	resolutions map[string]string
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{resolutions: make(map[string]string)}
}

func (m *mockMetrics) RecordProbe(host string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes = append(m.probes, probeRecord{host: host, ok: ok})
}

func (m *mockMetrics) RecordBindResolution(mode, host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[mode] = host
}

func mustNewResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()

	resolver, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return resolver
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
