// Package config loads engine construction parameters for the bonsai CLI
// from an optional HuJSON (JSON-with-comments) file, following the same
// defaults-then-file-then-CLI precedence the original ticket tooling uses.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// EngineKind selects which trie engine a config applies to.
type EngineKind string

const (
	DCW EngineKind = "dcw"
	PR  EngineKind = "pr"
)

// Config holds the construction parameters shared by both engines. Fields
// that don't apply to the selected Engine are ignored.
type Config struct {
	Engine     EngineKind `json:"engine"`
	AlpSize    uint64     `json:"alp_size"`
	LoadFactor float64    `json:"load_factor"`
	CollsBits  uint8      `json:"colls_bits,omitempty"`
	WidthFirst uint8      `json:"width_1st,omitempty"`
}

var errLoadFactorInvalid = errors.New("config: load_factor must be > 0")

// Default returns the settings implied by the original benchmark driver:
// a 253-symbol byte alphabet and a 0.9 load factor.
func Default() Config {
	return Config{
		Engine:     DCW,
		AlpSize:    253,
		LoadFactor: 0.9,
		CollsBits:  2,
		WidthFirst: 4,
	}
}

// Load reads and parses a HuJSON config file, overlaying it on Default().
// A missing path is not an error; Default() is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled CLI input
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid JSONC in %s: %w", path, err)
	}

	var overlay Config
	if err := json.Unmarshal(standardized, &overlay); err != nil {
		return Config{}, fmt.Errorf("config: invalid JSON in %s: %w", path, err)
	}

	cfg = merge(cfg, overlay)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.Engine != "" {
		base.Engine = overlay.Engine
	}
	if overlay.AlpSize != 0 {
		base.AlpSize = overlay.AlpSize
	}
	if overlay.LoadFactor != 0 {
		base.LoadFactor = overlay.LoadFactor
	}
	if overlay.CollsBits != 0 {
		base.CollsBits = overlay.CollsBits
	}
	if overlay.WidthFirst != 0 {
		base.WidthFirst = overlay.WidthFirst
	}
	return base
}

func validate(cfg Config) error {
	if cfg.LoadFactor <= 0 {
		return errLoadFactorInvalid
	}
	if cfg.AlpSize == 0 {
		return errors.New("config: alp_size must be > 0")
	}
	if cfg.Engine != DCW && cfg.Engine != PR {
		return fmt.Errorf("config: unknown engine %q", cfg.Engine)
	}
	return nil
}

// NumSlots derives the slot count for numNodes under this config's load
// factor, matching the original CLI's num_nodes/load_factor sizing.
func (c Config) NumSlots(numNodes uint64) uint64 {
	return uint64(float64(numNodes) / c.LoadFactor)
}
