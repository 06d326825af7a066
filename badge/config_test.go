package badge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sparques/irbadge/frame"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig(127).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"id too big", func(c *Config) { c.ID = 128 }},
		{"zero tag", func(c *Config) { c.Tag = 0 }},
		{"bad layout", func(c *Config) { c.Layout.Mode.Width = 0 }},
		{"remote carries tag", func(c *Config) { c.Remote.Mask = 0xFFFFFFFF; c.Remote.Dump = 0xBB000001 }},
		{"no sends", func(c *Config) { c.Sends = 0 }},
		{"no listen", func(c *Config) { c.ListenSlices = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig(1)
		tt.mod(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
			t.Errorf("%s: err = %v, want ErrConfig", tt.name, err)
		}
	}

	cfg := DefaultConfig(1)
	cfg.Layout.Payload.Width = 9
	if err := cfg.Validate(); !errors.Is(err, frame.ErrLayout) {
		t.Errorf("layout error not wrapped: %v", err)
	}
}

func TestFillMissingDefaults(t *testing.T) {
	cfg := Config{ID: 4, Sends: 5}
	cfg.FillMissingDefaults()
	want := DefaultConfig(4)
	want.Sends = 5
	if cfg != want {
		t.Fatalf("filled = %+v, want %+v", cfg, want)
	}
}

func TestConfigJSON(t *testing.T) {
	raw := `{"id": 9, "tag": 170, "bitten_max": 3}`
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	cfg.FillMissingDefaults()
	if cfg.ID != 9 || cfg.Tag != 0xAA || cfg.BittenMax != 3 || cfg.Layout != frame.DefaultLayout {
		t.Fatalf("config = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint8
		wantErr bool
	}{
		{in: "42", want: 42},
		{in: " 0x7f ", want: 127},
		{in: "0", want: 0},
		{in: "128", wantErr: true},
		{in: "", wantErr: true},
		{in: "badge", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrConfig) {
				t.Errorf("ParseID(%q) err = %v, want ErrConfig", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestModeText(t *testing.T) {
	for m := Init; m <= SendAllLedger; m++ {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Mode
		if err := back.UnmarshalText(b); err != nil || back != m {
			t.Errorf("%v: round trip gave %v, %v", m, back, err)
		}
	}
	if _, err := ParseMode("vampire"); !errors.Is(err, ErrConfig) {
		t.Errorf("ParseMode(vampire) err = %v", err)
	}
	if got := Mode(9).String(); got != "mode(9)" {
		t.Errorf("String = %q", got)
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		colour  uint8
		r, g, b uint8
	}{
		{0, 0, 0, 0},
		{Red, 255, 0, 0},
		{Green, 0, 255, 0},
		{Blue, 0, 0, 255},
		{0x15, 85, 85, 85},
	}
	for _, tt := range tests {
		r, g, b := RGB(tt.colour)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("RGB(%02X) = %d,%d,%d; want %d,%d,%d", tt.colour, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
