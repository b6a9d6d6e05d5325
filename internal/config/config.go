package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the exporter configuration. The zero config (no file at
// all) yields a working exporter with defaults; every field is optional.
type Config struct {
	Endpoint struct {
		Port int    `yaml:"port"`
		Path string `yaml:"path"`
	} `yaml:"endpoint"`

	Smartctl Smartctl `yaml:"smartctl"`

	// Collectors enables or disables individual collectors by name,
	// overriding their default-enabled state.
	Collectors map[string]bool `yaml:"collectors"`
}

// Smartctl configures invocation of the smartctl binary.
type Smartctl struct {
	// Path to the smartctl binary (default: "smartctl", resolved via PATH).
	Path string `yaml:"path"`

	// TimeoutStr bounds a single smartctl invocation (default: "30s").
	TimeoutStr string `yaml:"timeout"`

	// Devices lists devices to poll explicitly. Empty means scan with
	// `smartctl --scan-open`.
	Devices []string `yaml:"devices"`

	// Ignore and Accept are regex filters applied to scanned device names.
	Ignore string `yaml:"ignore"`
	Accept string `yaml:"accept"`
}

func (s Smartctl) Timeout() time.Duration {
	d, err := time.ParseDuration(s.TimeoutStr)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	c := &Config{}
	c.Endpoint.Port = 9541
	c.Endpoint.Path = "/metrics"
	c.Smartctl.Path = "smartctl"
	c.Smartctl.TimeoutStr = "30s"
	return c
}

// Load reads a YAML config file and fills in defaults for unset fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Endpoint.Port <= 0 || c.Endpoint.Port > 65535 {
		return fmt.Errorf("endpoint.port %d out of range", c.Endpoint.Port)
	}
	if c.Smartctl.TimeoutStr != "" {
		if _, err := time.ParseDuration(c.Smartctl.TimeoutStr); err != nil {
			return fmt.Errorf("smartctl.timeout: %w", err)
		}
	}
	for _, pat := range []string{c.Smartctl.Ignore, c.Smartctl.Accept} {
		if pat == "" {
			continue
		}
		if _, err := regexp.Compile(pat); err != nil {
			return fmt.Errorf("device filter: %w", err)
		}
	}
	return nil
}

// IsCollectorEnabled reports whether the named collector should run,
// honoring an explicit override in the config.
func (c *Config) IsCollectorEnabled(name string, defaultEnabled bool) bool {
	if enabled, ok := c.Collectors[name]; ok {
		return enabled
	}
	return defaultEnabled
}
