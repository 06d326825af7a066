// Package badge holds the interaction rules badges play by and the
// broadcast/listen loop that drives them.
package badge

import (
	"log/slog"

	"github.com/sparques/irbadge/frame"
	"github.com/sparques/irbadge/framebuf"
	"github.com/sparques/irbadge/ledger"
)

// Machine applies received codes and the passage of time to a badge State.
// It is owned by the main loop and is not safe for concurrent use.
type Machine struct {
	cfg    Config
	ledger *ledger.Ledger
	log    *slog.Logger
	state  State
}

// New boots a badge: it starts in Init and moves straight to Normal showing
// its own colour.
func New(cfg Config, l *ledger.Ledger, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Machine{
		cfg:    cfg,
		ledger: l,
		log:    logger,
		state:  State{Mode: Init},
	}
	m.state.Colour = cfg.ID & RGBMask
	m.setMode(Normal)
	return m
}

func (m *Machine) State() State {
	return m.state
}

// SetState replaces the state wholesale, e.g. to resume a simulation.
func (m *Machine) SetState(s State) {
	m.state = s
}

func (m *Machine) setMode(mode Mode) {
	if m.state.Mode == mode {
		return
	}
	m.log.Debug("mode change", "from", m.state.Mode, "to", mode, "loop", m.state.Loop)
	m.state.Mode = mode
}

// Drain handles every pending code in buf. A badge is bitten by at most one
// zombie per call however many zombies it heard.
func (m *Machine) Drain(buf *framebuf.Buffer) int {
	bitten := false
	return buf.Drain(func(code uint32) {
		m.handle(code, &bitten)
	})
}

// HandleCode applies a single received code.
func (m *Machine) HandleCode(code uint32) {
	bitten := false
	m.handle(code, &bitten)
}

func (m *Machine) handle(code uint32, bitten *bool) {
	remote := code & m.cfg.Remote.Mask
	switch {
	case remote == m.cfg.Remote.Reset:
		m.log.Info("remote reset")
		m.setMode(CycleColoursSeen)
		m.state.Colour = 0
		return
	case remote == m.cfg.Remote.Dezombify:
		m.log.Info("remote dezombify")
		m.setMode(CycleColoursSeen)
		return
	case remote == m.cfg.Remote.Dump:
		m.log.Info("remote ledger dump")
		m.setMode(SendAllLedger)
		return
	case !m.cfg.Layout.HasHeader(code, m.cfg.Tag):
		m.log.Debug("ignoring foreign code", "code", code)
		return
	}

	f := m.cfg.Layout.Decode(code)
	m.record(f.Sender)

	switch Mode(f.Mode) {
	case Zombie:
		if *bitten {
			return
		}
		*bitten = true
		m.state.Bites++
		m.log.Debug("bitten", "by", f.Sender, "bites", m.state.Bites)
		if m.state.Bites > m.cfg.BittenMax {
			m.setMode(Infected)
			m.state.Bites = 0
			m.state.InfectedAt = m.state.Loop
		}
	case SendAllLedger:
		// a dumping badge says nothing about its own state
	case CycleColoursSeen:
		if m.state.Mode == Infected {
			m.log.Info("cured", "by", f.Sender)
			m.setMode(CycleColoursSeen)
		}
	}
}

func (m *Machine) record(id uint8) {
	if m.ledger == nil || int(id) >= ledger.Size {
		return
	}
	added, err := m.ledger.Record(id)
	if err != nil {
		m.log.Warn("ledger record failed", "id", id, "error", err)
		return
	}
	if added {
		m.log.Info("new badge seen", "id", id)
	}
}

// Update applies the time based rules once per cycle.
func (m *Machine) Update() {
	s := &m.state
	switch s.Mode {
	case Infected:
		if s.Loop%2 != 0 {
			s.Colour = 0
		} else {
			s.Colour = Green
		}
		if s.Loop-s.InfectedAt > m.cfg.MaxTimeInfected {
			m.setMode(Zombie)
		}
	case Zombie:
		if s.Loop%3 != 0 {
			s.Colour = 0
		} else {
			s.Colour = Red
		}
	case CycleColoursSeen:
		if m.ledger == nil {
			return
		}
		_, marker, ok, err := m.ledger.Next(s.Colour & (ledger.Size - 1))
		if err != nil {
			m.log.Warn("ledger scan failed", "error", err)
			return
		}
		if ok {
			s.LastColour = s.Colour
			s.Colour = marker & RGBMask
		}
	}
}

// NextLoop closes a scheduler cycle.
func (m *Machine) NextLoop() {
	m.state.Loop++
}

// Code is the broadcast for the current state.
func (m *Machine) Code() uint32 {
	return m.cfg.Layout.Encode(frame.Frame{
		Header:  m.cfg.Tag,
		Sender:  m.cfg.ID,
		Mode:    uint8(m.state.Mode),
		Payload: m.state.Colour,
	})
}

// LedgerCodes is one broadcast per seen entry, sent ahead of Code while in
// SendAllLedger mode. The payload is the entry's marker.
func (m *Machine) LedgerCodes() []uint32 {
	if m.ledger == nil {
		return nil
	}
	entries, err := m.ledger.Entries()
	if err != nil {
		m.log.Warn("ledger read failed", "error", err)
	}
	out := make([]uint32, 0, len(entries))
	for _, e := range entries {
		out = append(out, m.cfg.Layout.Encode(frame.Frame{
			Header:  m.cfg.Tag,
			Sender:  m.cfg.ID,
			Mode:    uint8(SendAllLedger),
			Payload: e.Marker,
		}))
	}
	return out
}
