package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abczzz13/gatewaynet/config"
	"github.com/jessevdk/go-flags"
	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

var logLevel = new(slog.LevelVar) // Info by default

// GlobalOptions are shared by every subcommand. Flags override values from
// the config file.
type GlobalOptions struct {
	Config         string   `long:"config" short:"c" env:"GATEWAY_CONFIG" description:"Path to the gateway YAML config"`
	Bind           string   `long:"bind" env:"GATEWAY_BIND" description:"Bind mode: loopback, lan, tailnet, auto or custom"`
	CustomHost     string   `long:"custom-host" env:"GATEWAY_CUSTOM_HOST" description:"IPv4 address used by the custom bind mode"`
	Port           int      `long:"port" env:"GATEWAY_PORT" description:"Gateway port"`
	TrustedProxies []string `long:"trusted-proxy" env:"GATEWAY_TRUSTED_PROXIES" env-delim:"," description:"Trusted proxy address, IPv4 CIDR or * (repeatable)"`
	Verbose        bool     `long:"verbose" short:"v" description:"Enable debug logging"`
}

func newLogger(f *os.File) *slog.Logger {
	return slog.New(tint.NewHandler(f, &tint.Options{
		NoColor: !term.IsTerminal(int(f.Fd())),
		Level:   logLevel,
	}))
}

// loadConfig merges the config file, if any, with flag overrides and
// validates the result.
func loadConfig(opts *GlobalOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.Bind != "" {
		cfg.Gateway.Bind = opts.Bind
	}
	if opts.CustomHost != "" {
		cfg.Gateway.CustomBindHost = opts.CustomHost
	}
	if opts.Port != 0 {
		cfg.Gateway.Port = opts.Port
	}
	if len(opts.TrustedProxies) > 0 {
		cfg.Gateway.TrustedProxies = opts.TrustedProxies
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newParser(opts *GlobalOptions, log *slog.Logger) *flags.Parser {
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	p.CommandHandler = func(command flags.Commander, args []string) error {
		if opts.Verbose {
			logLevel.Set(slog.LevelDebug)
		}
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	_, _ = p.AddCommand("bind",
		"Print the resolved bind and listen hosts",
		"Resolves the configured bind mode by probing local addresses and prints the hosts a listener would bind.",
		&bindCommand{global: opts, log: log, out: os.Stdout})
	_, _ = p.AddCommand("serve",
		"Run a whoami gateway",
		"Listens on the resolved hosts and answers /whoami with the resolved client IP. Metrics are served on /metrics.",
		&serveCommand{global: opts, log: log})

	return p
}

func main() {
	log := newLogger(os.Stderr)

	var opts GlobalOptions
	if _, err := newParser(&opts, log).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			return
		}

		log.Error(err.Error())
		os.Exit(1)
	}
}
