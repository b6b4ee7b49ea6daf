// Package bindhost chooses the local address a gateway listener binds to.
//
// A Mode (loopback, lan, tailnet, auto or custom) is resolved into a concrete
// host by probing candidate addresses with short-lived listeners, falling back
// deterministically when the preferred address is unavailable:
//
//	resolver, _ := bindhost.New(
//	    bindhost.WithOverlayNetwork(tailnet.New()),
//	    bindhost.WithLogger(slog.Default()),
//	)
//
//	plan := resolver.Resolve(ctx, bindhost.Config{Mode: bindhost.ModeTailnet})
//	for _, host := range plan.ListenHosts {
//	    // net.Listen("tcp", net.JoinHostPort(host, port))
//	}
//
// Resolution never fails. Probes are bounded by a timeout and a timed-out
// probe counts as "not bindable", so resolution cannot stall startup.
package bindhost
