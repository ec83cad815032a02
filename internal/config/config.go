package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PortRange is an inclusive range of ports for one service type.
type PortRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Size returns the number of ports in the range.
func (r PortRange) Size() int {
	return r.End - r.Start + 1
}

// Contains reports whether port falls inside the range.
func (r PortRange) Contains(port int) bool {
	return port >= r.Start && port <= r.End
}

// Config represents the devports configuration
type Config struct {
	// Port ranges per service type, e.g. web: 3000-3999
	Ranges map[string]PortRange `yaml:"ranges"`

	// Registry settings
	RegistryPath string `yaml:"registry"`
	LockPath     string `yaml:"lock"`

	// Probe settings
	ProbeHost      string `yaml:"probe_host"`
	ProbeTimeoutMs int    `yaml:"probe_timeout_ms"`

	// Lock settings
	LockRetries int `yaml:"lock_retries"`
	LockStaleMs int `yaml:"lock_stale_ms"`
}

var typeNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Load reads the layered devports configuration: the global
// ~/.devports/config.yaml first, then .devports.yaml in the current
// directory, then .devports.local.yaml overrides on top.
func Load() (*Config, error) {
	cfg := defaults()

	// Load global config first (lowest priority)
	home, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(home, ".devports", "config.yaml")
		if _, err := os.Stat(globalPath); err == nil {
			if err := loadConfigFile(globalPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load project config
	if _, err := os.Stat(".devports.yaml"); err == nil {
		if err := loadConfigFile(".devports.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to load .devports.yaml: %w", err)
		}
	}

	// Load local overrides if they exist (highest priority)
	if _, err := os.Stat(".devports.local.yaml"); err == nil {
		if err := loadConfigFile(".devports.local.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to load .devports.local.yaml: %w", err)
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Ranges:         map[string]PortRange{},
		ProbeHost:      "localhost",
		ProbeTimeoutMs: 1000,
		LockRetries:    50,
		LockStaleMs:    30000,
	}
}

// loadConfigFile parses one YAML config layer and merges it into cfg.
// Ranges merge per type name; scalar fields override when set.
func loadConfigFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var layer Config
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	for name, rng := range layer.Ranges {
		cfg.Ranges[name] = rng
	}
	if layer.RegistryPath != "" {
		cfg.RegistryPath = layer.RegistryPath
	}
	if layer.LockPath != "" {
		cfg.LockPath = layer.LockPath
	}
	if layer.ProbeHost != "" {
		cfg.ProbeHost = layer.ProbeHost
	}
	if layer.ProbeTimeoutMs != 0 {
		cfg.ProbeTimeoutMs = layer.ProbeTimeoutMs
	}
	if layer.LockRetries != 0 {
		cfg.LockRetries = layer.LockRetries
	}
	if layer.LockStaleMs != 0 {
		cfg.LockStaleMs = layer.LockStaleMs
	}

	return nil
}

// expandPaths expands tildes and fills in default registry/lock paths
func (c *Config) expandPaths() error {
	if c.RegistryPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.RegistryPath = filepath.Join(home, ".devports", "registry.db")
	} else if strings.HasPrefix(c.RegistryPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand ~ in registry path: %w", err)
		}
		c.RegistryPath = strings.Replace(c.RegistryPath, "~", home, 1)
	}

	if c.LockPath == "" {
		c.LockPath = c.RegistryPath + ".lock"
	} else if strings.HasPrefix(c.LockPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand ~ in lock path: %w", err)
		}
		c.LockPath = strings.Replace(c.LockPath, "~", home, 1)
	}

	return nil
}

// Validate checks that at least one range is configured and every range is sane
func (c *Config) Validate() error {
	if len(c.Ranges) == 0 {
		return fmt.Errorf("no port ranges configured (run 'devports init' to create .devports.yaml)")
	}

	var bad []string
	for name, rng := range c.Ranges {
		switch {
		case !typeNameRe.MatchString(name):
			bad = append(bad, fmt.Sprintf("%s: invalid type name", name))
		case rng.Start <= 0 || rng.End > 65535:
			bad = append(bad, fmt.Sprintf("%s: ports must be within 1-65535", name))
		case rng.Start > rng.End:
			bad = append(bad, fmt.Sprintf("%s: range start %d is after end %d", name, rng.Start, rng.End))
		}
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("invalid port ranges: %s", strings.Join(bad, "; "))
	}

	return nil
}

// TypeNames returns the configured type names in sorted order.
func (c *Config) TypeNames() []string {
	names := make([]string, 0, len(c.Ranges))
	for name := range c.Ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProbeTimeout returns the probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

// LockStale returns the lock staleness threshold as a duration.
func (c *Config) LockStale() time.Duration {
	return time.Duration(c.LockStaleMs) * time.Millisecond
}
