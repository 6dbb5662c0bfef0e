// Package config layers run configuration from defaults, an optional
// graphmatch.toml, environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all settings of a matching run
type Config struct {
	Time        bool    `koanf:"time"`
	GED         bool    `koanf:"ged"`
	LP          bool    `koanf:"lp"`
	ApproxMinxt bool    `koanf:"approx-minext"`
	Fast        bool    `koanf:"fast"`
	Upperbound  float64 `koanf:"upperbound"`
	Exact       bool    `koanf:"exact"`
	STSM        bool    `koanf:"stsm"`
	Induced     bool    `koanf:"induced"`
	Output      string  `koanf:"output"`
	Multigraph  bool    `koanf:"multigraph"`
	Directed    bool    `koanf:"directed"`
	Verbose     bool    `koanf:"verbose"`
	Watch       bool    `koanf:"watch"`
	WebMode     bool    `koanf:"web"`
	Port        int     `koanf:"port"`
}

// Load merges configuration from defaults, config file, environment variables
// and flags. Priority: Flags > Env > Config File > Defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"time":          false,
		"ged":           false,
		"lp":            false,
		"approx-minext": false,
		"fast":          false,
		"upperbound":    1.0,
		"exact":         false,
		"stsm":          false,
		"induced":       false,
		"output":        "",
		"multigraph":    false,
		"directed":      false,
		"verbose":       false,
		"watch":         false,
		"web":           false,
		"port":          8080,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Config file is optional; absence is not an error.
	_ = k.Load(file.Provider("graphmatch.toml"), toml.Parser())

	// Environment variables, e.g. GRAPHMATCH_PORT=9090.
	if err := k.Load(env.Provider("GRAPHMATCH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "GRAPHMATCH_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects option combinations the matcher cannot honour.
func (c *Config) Validate() error {
	if c.Upperbound <= 0 || c.Upperbound > 1 {
		return fmt.Errorf("upperbound must be in (0,1], got %g", c.Upperbound)
	}
	if c.Exact && c.STSM {
		return fmt.Errorf("--exact cannot be combined with --stsm")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in [1, 65535], got %d", c.Port)
	}
	return nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
