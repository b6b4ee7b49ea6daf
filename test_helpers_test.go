package gatewaynet

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
)

type resolutionState struct {
	OK      bool
	IP      string
	Source  string
	Trusted bool
}

func resolutionStateOf(resolution Resolution, ok bool) resolutionState {
	return resolutionState{
		OK:      ok,
		IP:      resolution.IP,
		Source:  resolution.Source,
		Trusted: resolution.TrustedPeer,
	}
}

func mustNewResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()

	resolver, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return resolver
}

func newTestRequest(remoteAddr, path string) *http.Request {
	req := &http.Request{
		RemoteAddr: remoteAddr,
		Header:     make(http.Header),
	}

	if path != "" {
		req.URL = &url.URL{Path: path}
	}

	return req
}

type mockMetrics struct {
	mu             sync.Mutex
	resolutions    map[string]int
	failures       map[string]int
	securityEvents map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		resolutions:    make(map[string]int),
		failures:       make(map[string]int),
		securityEvents: make(map[string]int),
	}
}

func (m *mockMetrics) RecordResolution(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[source]++
}

func (m *mockMetrics) RecordResolutionFailure(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[source]++
}

func (m *mockMetrics) RecordSecurityEvent(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.securityEvents[event]++
}

func (m *mockMetrics) resolutionCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolutions[source]
}

func (m *mockMetrics) failureCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[source]
}

func (m *mockMetrics) securityEventCount(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.securityEvents[event]
}

type capturedLogEntry struct {
	ctx   context.Context
	msg   string
	attrs map[string]any
}

type capturedLogger struct {
	mu      sync.Mutex
	entries []capturedLogEntry
}

func (l *capturedLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, capturedLogEntry{
		ctx:   ctx,
		msg:   msg,
		attrs: attrsToMap(args),
	})
}

func (l *capturedLogger) snapshot() []capturedLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]capturedLogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func attrsToMap(args []any) map[string]any {
	attrs := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs[key] = args[i+1]
	}
	return attrs
}

func assertAttr(t *testing.T, attrs map[string]any, key string, want any) {
	t.Helper()

	got, ok := attrs[key]
	if !ok {
		t.Fatalf("missing %q attr", key)
	}

	if got != want {
		t.Fatalf("%s attr = %v, want %v", key, got, want)
	}
}

func assertCommonSecurityWarningAttrs(t *testing.T, attrs map[string]any, event, source, path, remoteAddr string) {
	t.Helper()

	assertAttr(t, attrs, "event", event)
	assertAttr(t, attrs, "source", source)
	assertAttr(t, attrs, "path", path)
	assertAttr(t, attrs, "remote_addr", remoteAddr)
}
