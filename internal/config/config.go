// Package config loads the JSON configuration of the host badge simulator.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sparques/irbadge/badge"
)

// LoggingConfig defines runtime logging behavior.
type LoggingConfig struct {
	Level string `json:"level"`
}

// BadgeConfig is one simulated badge.
type BadgeConfig struct {
	ID   uint8      `json:"id"`
	Mode badge.Mode `json:"mode"`
	// Ledger is a sqlite file; empty keeps the ledger in memory.
	Ledger string `json:"ledger"`
	// Seen pre-populates the ledger.
	Seen []uint8 `json:"seen"`
}

// SimConfig is the root simulator configuration.
type SimConfig struct {
	Logging LoggingConfig `json:"logging"`
	// Edition is shared by every badge; its ID is ignored.
	Edition badge.Config  `json:"edition"`
	Badges  []BadgeConfig `json:"badges"`
	Cycles  int           `json:"cycles"`
}

const DefaultCycles = 10

func Default() SimConfig {
	return SimConfig{
		Logging: LoggingConfig{Level: "info"},
		Edition: badge.DefaultConfig(0),
		Badges: []BadgeConfig{
			{ID: 1, Mode: badge.Normal},
			{ID: 2, Mode: badge.Normal},
			{ID: 3, Mode: badge.Zombie},
		},
		Cycles: DefaultCycles,
	}
}

func Load(path string) (SimConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	cleanPath := filepath.Clean(path)
	// #nosec G304 -- path comes from the command line.
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return SimConfig{}, fmt.Errorf("read config: %w", err)
	}

	cfg.Badges = nil
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return SimConfig{}, fmt.Errorf("decode config json: %w", err)
	}

	cfg.FillMissingDefaults()

	return cfg, nil
}

func (c *SimConfig) FillMissingDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Edition.FillMissingDefaults()
	if c.Cycles <= 0 {
		c.Cycles = DefaultCycles
	}
	for i := range c.Badges {
		if c.Badges[i].Mode == badge.Init {
			c.Badges[i].Mode = badge.Normal
		}
	}
}

// BadgeConfig returns the edition settings for badge b.
func (c SimConfig) BadgeConfig(b BadgeConfig) badge.Config {
	cfg := c.Edition
	cfg.ID = b.ID
	return cfg
}

func (c SimConfig) Validate() error {
	if len(c.Badges) == 0 {
		return errors.New("at least one badge is required")
	}
	ids := make(map[uint8]bool, len(c.Badges))
	for _, b := range c.Badges {
		if ids[b.ID] {
			return fmt.Errorf("duplicate badge id %d", b.ID)
		}
		ids[b.ID] = true
		if err := c.BadgeConfig(b).Validate(); err != nil {
			return fmt.Errorf("badge %d: %w", b.ID, err)
		}
	}
	return nil
}
