// Package config loads the planpin host configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML support for strings like "30s".
type Duration time.Duration

// UnmarshalYAML decodes a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the host-side configuration for the CLI and server. The engine
// itself takes these values through functional options; this file format only
// exists so operators can tune deployments without recompiling.
type Config struct {
	Cluster struct {
		// RadiusPx is the pixel distance below which pins merge.
		RadiusPx float64 `yaml:"radius_px"`
		// ZoomThreshold disables clustering at zoom >= threshold.
		ZoomThreshold float64 `yaml:"zoom_threshold"`
	} `yaml:"cluster"`

	HTTP struct {
		// Listen is the address for the overlay API server.
		Listen string `yaml:"listen"`
	} `yaml:"http"`

	Redis struct {
		// Addr enables the redis status cache when non-empty.
		Addr     string   `yaml:"addr"`
		Password string   `yaml:"password"`
		DB       int      `yaml:"db"`
		TTL      Duration `yaml:"ttl"`
	} `yaml:"redis"`

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the production defaults.
func Default() Config {
	var c Config
	c.Cluster.RadiusPx = 50
	c.Cluster.ZoomThreshold = 1.5
	c.HTTP.Listen = ":8080"
	c.Redis.TTL = Duration(30 * time.Second)
	c.Log.Level = "info"
	return c
}

// Load reads a YAML config file, applying defaults for absent fields.
// A missing path returns the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Cluster.RadiusPx <= 0 {
		return fmt.Errorf("cluster.radius_px must be positive, got %v", c.Cluster.RadiusPx)
	}
	if c.Cluster.ZoomThreshold <= 0 {
		return fmt.Errorf("cluster.zoom_threshold must be positive, got %v", c.Cluster.ZoomThreshold)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug|info|warn|error, got %q", c.Log.Level)
	}
	return nil
}
