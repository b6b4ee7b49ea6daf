package gatewaynet

import (
	"context"
	"strings"
)

// HeaderValues looks up request headers. Values returns one element per
// header line as received; names are passed in canonical form such as
// "X-Real-IP". http.Header implements it.
type HeaderValues interface {
	Values(name string) []string
}

// HeaderValuesFunc lets a plain lookup function serve as HeaderValues, which
// suits frameworks that do not expose an http.Header.
type HeaderValuesFunc func(name string) []string

// Values calls f. A nil f has no headers.
func (f HeaderValuesFunc) Values(name string) []string {
	if f != nil {
		return f(name)
	}
	return nil
}

// RequestInput carries what ResolveFrom needs from a request when no
// *http.Request is available (gRPC metadata, websocket upgrades, custom
// servers). A nil Context is treated as context.Background().
type RequestInput struct {
	Context    context.Context
	RemoteAddr string
	Path       string
	Headers    HeaderValues
}

func requestInputContext(input RequestInput) context.Context {
	if ctx := input.Context; ctx != nil {
		return ctx
	}
	return context.Background()
}

// inputFromHeaders collects forwarding headers. Multiple X-Forwarded-For lines
// form one list in arrival order; for X-Real-IP the first line is used.
func inputFromHeaders(remoteAddr, path string, headers HeaderValues) clientIPInput {
	in := clientIPInput{remoteAddr: remoteAddr, path: path}
	if isNilInterface(headers) {
		return in
	}

	if values := headers.Values(headerForwardedFor); len(values) > 0 {
		in.forwardedFor = strings.Join(values, ",")
	}

	if values := headers.Values(headerRealIP); len(values) > 0 {
		in.realIP = values[0]
		in.realIPCount = len(values)
	}

	return in
}
