// Package nec implements the pulse-distance protocol spoken between badges.
// It is the NEC remote control scheme with configurable timing and bit
// order, so stock remotes and badges of any edition share one decoder.
//
// A frame on the wire is
//
//	header mark, header space, Bits x (bit mark, one or zero space), stop mark
//
// and a repeat code is
//
//	header mark, repeat space, stop mark
package nec

import "github.com/sparques/irbadge"

// Message is a single code ready for an irbadge.TxDevice.
type Message struct {
	Timing Timing
	Code   uint32
}

func (m Message) MarshalFrame() []irbadge.TimePair {
	return m.Timing.Marshal(m.Code)
}

// Marshal returns the mark/space sequence for code. Only the low Bits bits of
// code are sent.
func (t Timing) Marshal(code uint32) []irbadge.TimePair {
	out := make([]irbadge.TimePair, t.Bits+2)

	out[0] = irbadge.TimePair{t.HeaderMark, t.HeaderSpace}

	one := irbadge.TimePair{t.BitMark, t.OneSpace}
	zero := irbadge.TimePair{t.BitMark, t.ZeroSpace}
	for i := 0; i < t.Bits; i++ {
		bit := i
		if t.MSBFirst {
			bit = t.Bits - 1 - i
		}
		if (code>>bit)&1 == 1 {
			out[i+1] = one
		} else {
			out[i+1] = zero
		}
	}

	// stop mark, nothing after it
	out[t.Bits+1] = irbadge.TimePair{t.BitMark, 0}

	return out
}

// Repeat returns the repeat code sequence.
func (t Timing) Repeat() []irbadge.TimePair {
	return []irbadge.TimePair{
		{t.HeaderMark, t.RepeatSpace},
		{t.BitMark, 0},
	}
}
