package nec

import (
	"errors"
	"fmt"
	"time"

	"github.com/sparques/irbadge"
)

// ErrInvalidTiming is returned by Timing.Validate.
var ErrInvalidTiming = errors.New("invalid nec timing")

// Timing holds every protocol constant the encoder and decoder need. Badge
// editions differ only in these values.
type Timing struct {
	Tick time.Duration

	HeaderMark  time.Duration
	HeaderSpace time.Duration
	RepeatSpace time.Duration
	BitMark     time.Duration
	OneSpace    time.Duration
	ZeroSpace   time.Duration

	// Tolerance is the accepted deviation from nominal, in percent.
	Tolerance int
	// Slack is added on both sides of bands whose nominal duration is
	// shorter than ShortRun, to absorb tick rounding.
	Slack    int
	ShortRun time.Duration

	Bits     int
	MSBFirst bool
}

func DefaultTiming() Timing {
	return Timing{
		Tick:        irbadge.DefaultTick,
		HeaderMark:  9000 * time.Microsecond,
		HeaderSpace: 4500 * time.Microsecond,
		RepeatSpace: 2250 * time.Microsecond,
		BitMark:     560 * time.Microsecond,
		OneSpace:    1600 * time.Microsecond,
		ZeroSpace:   560 * time.Microsecond,
		Tolerance:   25,
		Slack:       2,
		ShortRun:    time.Millisecond,
		Bits:        32,
	}
}

// Band is an inclusive range of run lengths in ticks.
type Band struct {
	Min int
	Max int
}

func (b Band) Contains(ticks int) bool {
	return ticks >= b.Min && ticks <= b.Max
}

func (b Band) overlaps(o Band) bool {
	return b.Min <= o.Max && o.Min <= b.Max
}

func (b Band) String() string {
	return fmt.Sprintf("[%d,%d]", b.Min, b.Max)
}

// Bands are the tolerance windows derived from a Timing.
type Bands struct {
	HeaderMark  Band
	HeaderSpace Band
	RepeatSpace Band
	BitMark     Band
	OneSpace    Band
	ZeroSpace   Band
}

// Bands computes the tolerance windows: nominal +/- Tolerance percent, widened
// by Slack ticks for short intervals.
func (t Timing) Bands() Bands {
	return Bands{
		HeaderMark:  t.band(t.HeaderMark),
		HeaderSpace: t.band(t.HeaderSpace),
		RepeatSpace: t.band(t.RepeatSpace),
		BitMark:     t.band(t.BitMark),
		OneSpace:    t.band(t.OneSpace),
		ZeroSpace:   t.band(t.ZeroSpace),
	}
}

func (t Timing) band(d time.Duration) Band {
	nominal := irbadge.Ticks(d, t.Tick)
	delta := nominal * t.Tolerance / 100
	if d < t.ShortRun {
		delta += t.Slack
	}
	b := Band{Min: nominal - delta, Max: nominal + delta}
	if b.Min < 1 {
		b.Min = 1
	}
	return b
}

func (t Timing) Validate() error {
	if t.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive", ErrInvalidTiming)
	}
	if t.Bits < 1 || t.Bits > 32 {
		return fmt.Errorf("%w: bits %d outside 1..32", ErrInvalidTiming, t.Bits)
	}
	if t.Tolerance < 0 || t.Tolerance > 99 {
		return fmt.Errorf("%w: tolerance %d%% outside 0..99", ErrInvalidTiming, t.Tolerance)
	}
	if t.Slack < 0 {
		return fmt.Errorf("%w: negative slack", ErrInvalidTiming)
	}
	for name, d := range map[string]time.Duration{
		"header mark":  t.HeaderMark,
		"header space": t.HeaderSpace,
		"bit mark":     t.BitMark,
		"one space":    t.OneSpace,
		"zero space":   t.ZeroSpace,
	} {
		if irbadge.Ticks(d, t.Tick) < 1 {
			return fmt.Errorf("%w: %s shorter than one tick", ErrInvalidTiming, name)
		}
	}
	b := t.Bands()
	if b.OneSpace.overlaps(b.ZeroSpace) {
		return fmt.Errorf("%w: one space %v overlaps zero space %v", ErrInvalidTiming, b.OneSpace, b.ZeroSpace)
	}
	if t.RepeatSpace > 0 && b.RepeatSpace.overlaps(b.HeaderSpace) {
		return fmt.Errorf("%w: repeat space %v overlaps header space %v", ErrInvalidTiming, b.RepeatSpace, b.HeaderSpace)
	}
	return nil
}
