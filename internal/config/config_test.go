package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sparques/irbadge/badge"
)

func TestLoadMissingFileUsesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Badges) != 3 || cfg.Cycles != DefaultCycles {
		t.Fatalf("config = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.json")
	raw := `{
		"logging": {"level": "debug"},
		"edition": {"tag": 170, "max_time_infected": 5},
		"badges": [
			{"id": 10, "mode": "zombie"},
			{"id": 11, "seen": [10, 12], "ledger": "b11.db"},
			{"id": 12}
		]
	}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Cycles != DefaultCycles {
		t.Fatalf("config = %+v", cfg)
	}
	if len(cfg.Badges) != 3 {
		t.Fatalf("got %d badges, want the 3 from the file", len(cfg.Badges))
	}
	if cfg.Badges[0].Mode != badge.Zombie || cfg.Badges[2].Mode != badge.Normal {
		t.Fatalf("modes = %v, %v", cfg.Badges[0].Mode, cfg.Badges[2].Mode)
	}
	bc := cfg.BadgeConfig(cfg.Badges[1])
	if bc.ID != 11 || bc.Tag != 0xAA || bc.MaxTimeInfected != 5 || bc.Sends != badge.DefaultSends {
		t.Fatalf("badge config = %+v", bc)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.json")
	if err := os.WriteFile(path, []byte(`{"badges": [{"mode": "vampire"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted an unknown mode")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		badges []BadgeConfig
	}{
		{"no badges", nil},
		{"duplicate", []BadgeConfig{{ID: 1}, {ID: 1}}},
		{"id out of range", []BadgeConfig{{ID: 200}}},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Badges = tt.badges
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate succeeded", tt.name)
		}
	}
}
