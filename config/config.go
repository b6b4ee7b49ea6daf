// Package config loads the declarative gateway configuration: bind policy,
// port and trusted proxies.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abczzz13/gatewaynet"
	"github.com/abczzz13/gatewaynet/bindhost"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the gateway port used when none is configured.
const DefaultPort = 18789

// Config is the top-level configuration document.
type Config struct {
	Gateway Gateway `yaml:"gateway"`
}

// Gateway configures the gateway listener and client IP resolution.
type Gateway struct {
	// Bind is one of loopback, lan, tailnet, auto or custom. Empty means
	// loopback.
	Bind string `yaml:"bind"`
	// CustomBindHost is the IPv4 address used when Bind is custom.
	CustomBindHost string `yaml:"customBindHost"`
	Port           int    `yaml:"port"`
	// TrustedProxies lists "*", IPv4 CIDR blocks or addresses whose
	// forwarding headers are honored.
	TrustedProxies []string `yaml:"trustedProxies"`
	// StrictBindMode treats an unknown bind mode as loopback instead of all
	// interfaces.
	StrictBindMode bool `yaml:"strictBindMode"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Gateway: Gateway{
			Bind: bindhost.ModeLoopback.String(),
			Port: DefaultPort,
		},
	}
}

// Parse decodes a YAML document on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	return Parse(data)
}

// Validate checks the configuration for mistakes an operator should fix.
// The resolvers tolerate every one of these; validation exists so the CLI
// can refuse to start on a typo instead of silently falling back.
func (c *Config) Validate() error {
	g := c.Gateway

	mode := bindhost.ParseMode(g.Bind)
	if !mode.Valid() {
		return fmt.Errorf("unknown bind mode %q (must be loopback, lan, tailnet, auto or custom)", g.Bind)
	}

	if mode == bindhost.ModeCustom {
		host := strings.TrimSpace(g.CustomBindHost)
		if host == "" {
			return errors.New("bind mode custom requires customBindHost")
		}
		if !bindhost.IsValidIPv4(host) {
			return fmt.Errorf("customBindHost %q is not a valid IPv4 address", host)
		}
	}

	if g.Port < 0 || g.Port > 65535 {
		return fmt.Errorf("port must be in [0,65535], got %d", g.Port)
	}

	if err := gatewaynet.ValidateTrustedProxies(g.TrustedProxies); err != nil {
		return err
	}

	return nil
}

// BindConfig returns the bind policy.
func (c *Config) BindConfig() bindhost.Config {
	return bindhost.Config{
		Mode:       bindhost.ParseMode(c.Gateway.Bind),
		CustomHost: c.Gateway.CustomBindHost,
	}
}

// BindOptions returns bindhost options derived from the configuration.
func (c *Config) BindOptions() []bindhost.Option {
	var opts []bindhost.Option
	if c.Gateway.StrictBindMode {
		opts = append(opts, bindhost.WithStrictUnknownMode())
	}
	return opts
}

// ResolverOptions returns gatewaynet options derived from the configuration.
func (c *Config) ResolverOptions() []gatewaynet.Option {
	if len(c.Gateway.TrustedProxies) == 0 {
		return nil
	}
	return []gatewaynet.Option{gatewaynet.TrustProxies(c.Gateway.TrustedProxies...)}
}
