// Package config loads the traceback buffer configuration.
//
// Capacity is a build/initialization-time choice between the compact default
// and the verbose debug depth; an explicit capacity overrides the mode. The
// power-of-two validation itself lives with the ring store, the only place
// that can judge soundness of the masked indexing.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tracering/internal/ring"
)

// Buffer modes selectable in configuration.
const (
	ModeCompact = "compact"
	ModeVerbose = "verbose"
)

// Config selects the ring buffer depth.
type Config struct {
	// Mode is "compact" (128 entries, the default) or "verbose" (8192
	// entries, for debug builds chasing long propagation chains).
	Mode string `yaml:"mode,omitempty"`

	// Capacity, when non-zero, overrides Mode with an explicit entry count.
	// Must be a power of two.
	Capacity int `yaml:"capacity,omitempty"`
}

// Default returns the compact production configuration.
func Default() *Config {
	return &Config{Mode: ModeCompact}
}

// Load reads and parses a YAML config file.
// Unknown fields are rejected to catch typos.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return &cfg, nil
}

// RingCapacity resolves the configured entry count. An explicit Capacity
// wins over Mode; an unset config resolves to the compact default. The
// returned value still passes through ring.New's power-of-two validation.
func (c *Config) RingCapacity() (int, error) {
	if c.Capacity != 0 {
		return c.Capacity, nil
	}
	switch c.Mode {
	case "", ModeCompact:
		return ring.CompactCapacity, nil
	case ModeVerbose:
		return ring.VerboseCapacity, nil
	default:
		return 0, fmt.Errorf("unknown buffer mode %q (want %q or %q)", c.Mode, ModeCompact, ModeVerbose)
	}
}

// NewStore resolves the capacity and constructs the ring store.
func (c *Config) NewStore() (*ring.Store, error) {
	capacity, err := c.RingCapacity()
	if err != nil {
		return nil, err
	}
	return ring.New(capacity)
}
