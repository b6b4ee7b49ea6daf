// Package gatewaynet resolves the client address of requests reaching a
// locally-run gateway and classifies addresses as local to this machine.
//
// # Features
//
//   - Anti-spoofing: forwarding headers are ignored unless the immediate peer is
//     a trusted proxy
//   - Trusted proxy lists with exact addresses, IPv4 CIDR blocks and a "*"
//     wildcard, precompiled into a prefix trie
//   - Fixed precedence for trusted peers: X-Forwarded-For, X-Real-IP, peer
//   - Canonical address strings (lowercase, no brackets or ports, IPv4-mapped
//     addresses unwrapped)
//   - Loopback and overlay-network ("tailnet") local address checks
//   - Optional observability with context-aware logging and pluggable metrics
//
// Bind address selection lives in the bindhost subpackage.
//
// # Basic Usage
//
// Stateless resolution:
//
//	ip, ok := gatewaynet.ResolveClientIP(
//	    "100.64.0.5",                 // socket peer
//	    "198.51.100.7, 100.64.0.5",   // X-Forwarded-For
//	    "",                           // X-Real-IP
//	    []string{"100.64.0.0/24"},    // trusted proxies
//	)
//	// ip == "198.51.100.7", ok == true
//
// # Behind Reverse Proxy
//
// A Resolver compiles the trusted proxy list once and can be shared across
// handlers:
//
//	resolver, err := gatewaynet.New(
//	    gatewaynet.TrustLoopbackProxy(),
//	    gatewaynet.TrustProxies("10.0.0.0/8"),
//	    gatewaynet.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resolution, ok := resolver.ResolveRequest(req)
//	if !ok {
//	    // no client address could be determined; reject or treat as anonymous
//	}
//	fmt.Println(resolution.IP, resolution.Source)
//
// # Security Considerations
//
//   - Only IPv4 CIDR blocks are supported; IPv6 blocks never match
//   - Malformed trust entries never match and are not configuration errors;
//     use ValidateTrustedProxies to reject them at load time
//   - Headers from untrusted peers are reported as the untrusted_proxy
//     security event
//
// # Thread Safety
//
// Resolver instances and all package-level functions are safe for concurrent
// use. Nothing in this package holds process-wide state.
package gatewaynet
