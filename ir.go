package irbadge

import "time"

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000

	// DefaultTick is the sampling period of the receive interrupt.
	DefaultTick = 50 * time.Microsecond
)

// Level is the demodulated state of the optical channel at one instant.
type Level uint8

const (
	// Space is the idle level: no carrier.
	Space Level = iota
	// Mark is the active level: carrier present.
	Mark
)

func (l Level) String() string {
	if l == Mark {
		return "mark"
	}
	return "space"
}

// TimePair encodes a mark duration followed by a space duration.
type TimePair [2]time.Duration

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

// Clock is the tick source shared by the transmitter and the receiver.
// WaitTicks blocks (busy waits on hardware) for n ticks.
type Clock interface {
	WaitTicks(n int)
	TickPeriod() time.Duration
}

// Carrier switches the modulated IR output on (mark) and off (space).
type Carrier interface {
	Enable()
	Disable()
}

// Ticks converts d into a whole number of ticks of the given period,
// rounding to the nearest tick.
func Ticks(d, tick time.Duration) int {
	if tick <= 0 || d <= 0 {
		return 0
	}
	return int((d + tick/2) / tick)
}
