package nec

import "github.com/sparques/irbadge"

// State is the position of the decoder within a frame.
type State uint8

const (
	Idle State = iota
	HeaderMark
	HeaderSpace
	RepeatMark
	BitMark
	BitSpace
	StopMark
)

var stateNames = [...]string{
	Idle:        "idle",
	HeaderMark:  "header-mark",
	HeaderSpace: "header-space",
	RepeatMark:  "repeat-mark",
	BitMark:     "bit-mark",
	BitSpace:    "bit-space",
	StopMark:    "stop-mark",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Sink receives completed codes. It is called from interrupt context.
type Sink interface {
	Put(code uint32)
}

// StateMachine decodes pulse-distance frames from one Level sample per tick.
// Every run of identical samples is measured in ticks and classified against
// the Bands of its Timing; a run outside its band drops the frame in progress
// and returns to Idle. There is no partial frame recovery and no error
// reporting: bad frames simply never reach the Sink.
type StateMachine struct {
	sink  Sink
	bits  int
	msb   bool
	bands Bands

	headerSpaceMax int
	bitSpaceMax    int
	repeat         bool

	state    State
	last     irbadge.Level
	timer    int
	bitcount int
	code     uint32
	mask     uint32
}

// NewStateMachine creates an implementation of irbadge.RxStateMachine.
// The Timing is expected to have passed Validate.
func NewStateMachine(t Timing, sink Sink) *StateMachine {
	b := t.Bands()
	sm := &StateMachine{
		sink:           sink,
		bits:           t.Bits,
		msb:            t.MSBFirst,
		bands:          b,
		headerSpaceMax: b.HeaderSpace.Max,
		bitSpaceMax:    max(b.OneSpace.Max, b.ZeroSpace.Max),
		repeat:         t.RepeatSpace > 0,
	}
	if sm.repeat {
		sm.headerSpaceMax = max(sm.headerSpaceMax, b.RepeatSpace.Max)
	}
	return sm
}

// State reports the current decoder state.
func (sm *StateMachine) State() State {
	return sm.state
}

func (sm *StateMachine) reset() {
	sm.state = Idle
	sm.timer = 0
}

// Reset drops any frame in progress and treats the input as having been
// idle. Call it only while nothing is sampling, e.g. from RxDevice.Enable.
func (sm *StateMachine) Reset() {
	sm.reset()
	sm.last = irbadge.Space
}

// MaxRun is the longest run that can still be part of a frame, plus one.
// Any longer run decodes the same as MaxRun.
func (sm *StateMachine) MaxRun() int {
	b := sm.bands
	return max(b.HeaderMark.Max, sm.headerSpaceMax, b.BitMark.Max, sm.bitSpaceMax) + 1
}

// enter starts timing a new run in state s.
func (sm *StateMachine) enter(s State) {
	sm.state = s
	sm.timer = 1
}

// extend counts one more tick of the current run and gives up once it has
// outgrown limit.
func (sm *StateMachine) extend(limit int) {
	sm.timer++
	if sm.timer > limit {
		sm.reset()
	}
}

// Sample implements the irbadge.RxStateMachine interface
func (sm *StateMachine) Sample(level irbadge.Level) {
	prev := sm.last
	sm.last = level

	switch sm.state {
	case Idle:
		// only a fresh mark starts a header; the tail of a rejected
		// mark does not
		if level == irbadge.Mark && prev == irbadge.Space {
			sm.enter(HeaderMark)
		}

	case HeaderMark:
		if level == irbadge.Mark {
			sm.extend(sm.bands.HeaderMark.Max)
			return
		}
		if !sm.bands.HeaderMark.Contains(sm.timer) {
			sm.reset()
			return
		}
		sm.enter(HeaderSpace)

	case HeaderSpace:
		if level == irbadge.Space {
			sm.extend(sm.headerSpaceMax)
			return
		}
		switch {
		case sm.bands.HeaderSpace.Contains(sm.timer):
			sm.bitcount = 0
			sm.code = 0
			sm.mask = 1
			if sm.msb {
				sm.mask = 1 << (sm.bits - 1)
			}
			sm.enter(BitMark)
		case sm.repeat && sm.bands.RepeatSpace.Contains(sm.timer):
			sm.enter(RepeatMark)
		default:
			sm.reset()
		}

	case RepeatMark:
		// repeats are ignored; just let the trailing mark pass
		if level == irbadge.Mark {
			sm.extend(sm.bands.BitMark.Max)
			return
		}
		sm.reset()

	case BitMark:
		if level == irbadge.Mark {
			sm.extend(sm.bands.BitMark.Max)
			return
		}
		if !sm.bands.BitMark.Contains(sm.timer) {
			sm.reset()
			return
		}
		sm.enter(BitSpace)

	case BitSpace:
		if level == irbadge.Space {
			sm.extend(sm.bitSpaceMax)
			return
		}
		switch {
		case sm.bands.OneSpace.Contains(sm.timer):
			sm.code |= sm.mask
		case sm.bands.ZeroSpace.Contains(sm.timer):
		default:
			sm.reset()
			return
		}
		if sm.msb {
			sm.mask >>= 1
		} else {
			sm.mask <<= 1
		}
		sm.bitcount++
		if sm.bitcount < sm.bits {
			sm.enter(BitMark)
		} else {
			sm.enter(StopMark)
		}

	case StopMark:
		if level == irbadge.Mark {
			sm.extend(sm.bands.BitMark.Max)
			return
		}
		if sm.bands.BitMark.Contains(sm.timer) {
			sm.sink.Put(sm.code)
		}
		sm.reset()
	}
}
