package badge

import (
	"fmt"
	"strings"
)

// Mode is what a badge is doing; it is broadcast in every frame.
type Mode uint8

const (
	Init Mode = iota
	Normal
	Infected
	Zombie
	CycleColoursSeen
	SendAllLedger
)

var modeNames = [...]string{
	Init:             "init",
	Normal:           "normal",
	Infected:         "infected",
	Zombie:           "zombie",
	CycleColoursSeen: "cycle-colours-seen",
	SendAllLedger:    "send-all-ledger",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if s == name {
			return Mode(m), nil
		}
	}
	return Init, fmt.Errorf("%w: unknown mode %q", ErrConfig, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Colours are two bits per channel.
const (
	Red     uint8 = 0x03
	Green   uint8 = 0x0C
	Blue    uint8 = 0x30
	RGBMask       = Red | Green | Blue
)

// State is everything the interaction rules read and write.
type State struct {
	Mode       Mode
	Colour     uint8
	LastColour uint8
	// Loop counts completed scheduler cycles (~1s each).
	Loop       int
	InfectedAt int
	Bites      int
}

// RGB expands a colour to eight bits per channel.
func RGB(colour uint8) (r, g, b uint8) {
	return (colour & 0x03) * 85, (colour >> 2 & 0x03) * 85, (colour >> 4 & 0x03) * 85
}
