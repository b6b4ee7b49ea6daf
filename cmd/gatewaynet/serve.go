package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/abczzz13/gatewaynet"
	"github.com/abczzz13/gatewaynet/bindhost"
	gwprom "github.com/abczzz13/gatewaynet/prometheus"
	"github.com/abczzz13/gatewaynet/tailnet"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/relvacode/interrupt"
)

const shutdownTimeout = 10 * time.Second

type serveCommand struct {
	global *GlobalOptions
	log    *slog.Logger
}

type whoamiResponse struct {
	RequestID   string `json:"request_id"`
	IP          string `json:"ip"`
	Source      string `json:"source"`
	Peer        string `json:"peer"`
	TrustedPeer bool   `json:"trusted_peer"`
	Local       bool   `json:"local"`
}

func (c *serveCommand) Execute([]string) error {
	cfg, err := loadConfig(c.global)
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	metrics, err := gwprom.NewWithRegisterer(registry)
	if err != nil {
		return err
	}

	overlay := tailnet.New()
	resolver, err := gatewaynet.New(append(cfg.ResolverOptions(),
		gatewaynet.WithOverlayNetwork(overlay),
		gatewaynet.WithLogger(c.log),
		gatewaynet.WithMetrics(metrics),
	)...)
	if err != nil {
		return err
	}

	binder, err := newBindResolver(cfg, c.log, nil, bindhost.WithMetrics(metrics))
	if err != nil {
		return err
	}

	ctx := interrupt.Context(context.Background())
	plan := binder.Resolve(ctx, cfg.BindConfig())

	mux := http.NewServeMux()
	mux.Handle("/whoami", whoamiHandler(resolver, c.log))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	listeners := make([]net.Listener, 0, len(plan.ListenHosts))
	for _, host := range plan.ListenHosts {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(cfg.Gateway.Port)))
		if err != nil {
			for _, open := range listeners {
				_ = open.Close()
			}
			return err
		}
		listeners = append(listeners, ln)
	}

	return serve(ctx, c.log, mux, listeners)
}

// serve runs one HTTP server per listener until ctx is cancelled or any
// server fails.
func serve(ctx context.Context, log *slog.Logger, handler http.Handler, listeners []net.Listener) error {
	var (
		wg      sync.WaitGroup
		exit    = make(chan error, len(listeners))
		servers = make([]*http.Server, 0, len(listeners))
	)

	for _, ln := range listeners {
		server := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
		servers = append(servers, server)

		wg.Add(1)
		go func(ln net.Listener) {
			defer wg.Done()
			log.Info("Start HTTP server", "addr", ln.Addr().String())
			exit <- server.Serve(ln)
		}(ln)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-exit:
	}

	timeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, server := range servers {
		_ = server.Shutdown(timeout)
	}
	wg.Wait()

	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

func whoamiHandler(resolver *gatewaynet.Resolver, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()

		resolution, ok := resolver.ResolveRequest(r)
		if !ok {
			log.WarnContext(r.Context(), "Cannot determine client address", "request_id", id, "remote_addr", r.RemoteAddr)
			http.Error(w, "cannot determine client address", http.StatusBadRequest)
			return
		}

		local := resolver.IsLocal(resolution.IP)
		log.Debug("Resolved client",
			"request_id", id,
			"ip", resolution.IP,
			"source", resolution.Source,
			"local", local,
		)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(whoamiResponse{
			RequestID:   id,
			IP:          resolution.IP,
			Source:      resolution.Source,
			Peer:        resolution.Peer,
			TrustedPeer: resolution.TrustedPeer,
			Local:       local,
		})
	})
}
