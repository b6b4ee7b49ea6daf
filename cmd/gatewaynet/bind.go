package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/abczzz13/gatewaynet/bindhost"
	"github.com/abczzz13/gatewaynet/config"
	"github.com/abczzz13/gatewaynet/tailnet"
)

type bindCommand struct {
	global *GlobalOptions
	log    *slog.Logger
	out    io.Writer

	prober bindhost.Prober
}

func (c *bindCommand) Execute([]string) error {
	cfg, err := loadConfig(c.global)
	if err != nil {
		return err
	}

	resolver, err := newBindResolver(cfg, c.log, c.prober)
	if err != nil {
		return err
	}

	plan := resolver.Resolve(context.Background(), cfg.BindConfig())
	return printPlan(c.out, plan, cfg.Gateway.Port)
}

func newBindResolver(cfg *config.Config, log *slog.Logger, prober bindhost.Prober, extra ...bindhost.Option) (*bindhost.Resolver, error) {
	opts := append(cfg.BindOptions(),
		bindhost.WithOverlayNetwork(tailnet.New()),
		bindhost.WithLogger(log),
	)
	if prober != nil {
		opts = append(opts, bindhost.WithProber(prober))
	}
	opts = append(opts, extra...)

	return bindhost.New(opts...)
}

func printPlan(w io.Writer, plan bindhost.Plan, port int) error {
	if _, err := fmt.Fprintf(w, "mode       %s\nbind host  %s\n", plan.Mode, plan.BindHost); err != nil {
		return err
	}

	for _, host := range plan.ListenHosts {
		if _, err := fmt.Fprintf(w, "listen     %s\n", net.JoinHostPort(host, strconv.Itoa(port))); err != nil {
			return err
		}
	}

	return nil
}
