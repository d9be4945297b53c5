// Package config loads and validates the typed configuration document
// the core consumes; parsing the textual source is explicitly out of
// scope for the core itself.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Metrics is one neighbor's raw link-metric vector. XXX captures any
// additional fields a deployment config carries; those are permitted but
// ignored, so they must round-trip through YAML parsing without error.
type Metrics struct {
	LatencyMS     float64        `yaml:"latency_ms"`
	BandwidthMbps float64        `yaml:"bandwidth_mbps"`
	XXX           map[string]any `yaml:",inline"`
}

// Neighbor is one statically configured peer.
type Neighbor struct {
	ID      string  `yaml:"id"`
	IP      string  `yaml:"ip"`
	Port    int     `yaml:"port"`
	Metrics Metrics `yaml:"metrics"`
}

// Config is the typed value the core consumes. The core does not
// validate the textual source of this configuration — that is this
// package's job, via Validate.
type Config struct {
	RouterID   string            `yaml:"router_id"`
	ListenPort int               `yaml:"listen_port"`
	NetworkMap map[string]string `yaml:"network_map"`
	Neighbors  []Neighbor        `yaml:"neighbors"`

	UpdateIntervalSeconds   int `yaml:"update_interval_seconds"`
	TimeoutIntervalSeconds  int `yaml:"timeout_interval_seconds"`
	HoldDownIntervalSeconds int `yaml:"hold_down_interval_seconds"`

	Interface string `yaml:"interface"` // kernel link to install routes on
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"` // empty means stdout
}

// Load reads path and unmarshals it as YAML into a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects a configuration document that cannot produce a
// runnable router.
func (c *Config) Validate() error {
	if c.RouterID == "" {
		return fmt.Errorf("router_id is required")
	}
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("listen_port %d out of range 1-65535", c.ListenPort)
	}
	if _, ok := c.NetworkMap[c.RouterID]; !ok {
		return fmt.Errorf("network_map has no entry for router_id %q", c.RouterID)
	}
	seen := make(map[string]bool, len(c.Neighbors))
	for _, nb := range c.Neighbors {
		if nb.ID == "" {
			return fmt.Errorf("neighbor with empty id")
		}
		if nb.ID == c.RouterID {
			return fmt.Errorf("neighbor id %q equals router_id", nb.ID)
		}
		if seen[nb.ID] {
			return fmt.Errorf("duplicate neighbor id %q", nb.ID)
		}
		seen[nb.ID] = true
	}
	return nil
}
