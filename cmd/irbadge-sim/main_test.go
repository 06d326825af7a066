//go:build !tinygo

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sparques/irbadge/badge"
	"github.com/sparques/irbadge/internal/config"
	"github.com/sparques/irbadge/nec"
)

func TestParseScript(t *testing.T) {
	script := `
# wake everyone up
at 3 remote dump
at 1 remote "reset"   # comment after
at 2 remote Dezombify
`
	events, err := parseScript(strings.NewReader(script), badge.AppleRemote)
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	want := []event{
		{cycle: 1, name: "reset", code: badge.AppleRemote.Reset},
		{cycle: 2, name: "dezombify", code: badge.AppleRemote.Dezombify},
		{cycle: 3, name: "dump", code: badge.AppleRemote.Dump},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []string{
		"at x remote reset",
		"at -1 remote reset",
		"at 1 remote eject",
		"at 1 press reset",
		"at 1",
		`at 1 remote "reset`,
	}
	for _, line := range tests {
		if _, err := parseScript(strings.NewReader(line), badge.AppleRemote); err == nil {
			t.Errorf("parseScript(%q) succeeded, want error", line)
		}
	}
}

func twoBadges(cycles int) config.SimConfig {
	cfg := config.Default()
	cfg.Badges = []config.BadgeConfig{
		{ID: 1, Mode: badge.Normal},
		{ID: 3, Mode: badge.Zombie},
	}
	cfg.Cycles = cycles
	return cfg
}

func TestSimulateZombieInfects(t *testing.T) {
	states, err := simulate(context.Background(), twoBadges(2), nec.DefaultTiming(), nil, nil)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if states[0].Mode != badge.Infected {
		t.Errorf("badge 1 mode = %v, want infected", states[0].Mode)
	}
	if states[1].Mode != badge.Zombie {
		t.Errorf("badge 3 mode = %v, want zombie", states[1].Mode)
	}
	for i, st := range states {
		if st.Loop != 2 {
			t.Errorf("badge %d ran %d loops, want 2", i, st.Loop)
		}
	}
}

func TestSimulateRemoteDezombify(t *testing.T) {
	events := []event{{cycle: 1, name: "dezombify", code: badge.AppleRemote.Dezombify}}
	states, err := simulate(context.Background(), twoBadges(2), nec.DefaultTiming(), events, nil)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	// each badge now cycles through the single peer it has seen
	want := []uint8{3, 1}
	for i, st := range states {
		if st.Mode != badge.CycleColoursSeen {
			t.Errorf("badge %d mode = %v, want cycle-colours-seen", i, st.Mode)
		}
		if st.Colour != want[i] {
			t.Errorf("badge %d colour = %d, want %d", i, st.Colour, want[i])
		}
	}
}

func TestSimulateRejectsBadTiming(t *testing.T) {
	timing := nec.DefaultTiming()
	timing.OneSpace = timing.ZeroSpace
	_, err := simulate(context.Background(), twoBadges(1), timing, nil, nil)
	if !errors.Is(err, nec.ErrInvalidTiming) {
		t.Fatalf("simulate err = %v, want ErrInvalidTiming", err)
	}
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-cycles", "1", "-log-level", "error"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want one per default badge:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[2], "zombie") {
		t.Errorf("badge 3 line = %q, want zombie", lines[2])
	}
}

func TestRunBadFlag(t *testing.T) {
	if err := run([]string{"-log-level", "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatal("run with a bad log level succeeded")
	}
}
