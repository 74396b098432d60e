// Package config loads the YAML server configuration: os.ReadFile +
// yaml.Unmarshal, defaults filled in after decode, then a Validate() pass.
package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DefaultListenAddr is the default RESP listen address.
const DefaultListenAddr = "0.0.0.0:6379"

// DefaultShards is the shard count used when Store.Shards is left at zero.
const DefaultShards = 32

// Config is the top-level server configuration.
type Config struct {
	Listen struct {
		// Addr is the RESP TCP listen address.
		Addr string `yaml:"addr"`
		// DebugAddr is the /debug/stats HTTP listen address. It is used
		// as given and is not restricted to loopback. Empty disables the
		// debug endpoint entirely.
		DebugAddr string `yaml:"debug_addr"`
	} `yaml:"listen"`

	Store struct {
		Shards int `yaml:"shards"`
	} `yaml:"store"`

	Accept struct {
		// RatePerSecond bounds how many new connections are accepted
		// per second. Zero disables rate limiting.
		RatePerSecond float64 `yaml:"rate_per_second"`
		Burst         int     `yaml:"burst"`
	} `yaml:"accept"`
}

// Load reads and decodes the YAML config at path, applies defaults to any
// zero-valued field, and validates the result. A missing path is not an
// error — it returns the default configuration, matching how an operator
// running the server with no -config flag still gets a sane listener.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns a Config with every field set to its default value.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Listen.Addr == "" {
		c.Listen.Addr = DefaultListenAddr
	}
	if c.Store.Shards == 0 {
		c.Store.Shards = DefaultShards
	}
}

// Validate reports every problem with c at once, combined with
// multierr.Append rather than stopping at the first field that fails,
// since several fields here can be wrong independently.
func (c *Config) Validate() error {
	var errs error
	if c.Listen.Addr == "" {
		errs = multierr.Append(errs, fmt.Errorf("listen.addr must not be empty"))
	}
	if c.Store.Shards <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("store.shards must be positive, got %d", c.Store.Shards))
	}
	if c.Accept.RatePerSecond < 0 {
		errs = multierr.Append(errs, fmt.Errorf("accept.rate_per_second must not be negative"))
	}
	if c.Accept.RatePerSecond > 0 && c.Accept.Burst <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("accept.burst must be positive when accept.rate_per_second is set"))
	}
	return errs
}
