package irbadge

import "time"

// TxDevice drives a Carrier with mark/space timing taken from a Clock.
// Sending monopolises the caller for the whole frame; the receiver sharing
// the optical front end must be disabled by the caller beforehand.
type TxDevice struct {
	carrier Carrier
	clock   Clock
}

func NewTxDevice(carrier Carrier, clock Clock) *TxDevice {
	carrier.Disable()
	return &TxDevice{
		carrier: carrier,
		clock:   clock,
	}
}

func (tx *TxDevice) SendPair(pair TimePair) {
	tx.mark(pair[0])
	tx.space(pair[1])
}

func (tx *TxDevice) SendPairs(pairs ...TimePair) {
	for _, p := range pairs {
		tx.SendPair(p)
	}
}

func (tx *TxDevice) SendFrame(fm FrameMarshaller) {
	tx.SendPairs(fm.MarshalFrame()...)
}

func (tx *TxDevice) SendFrames(fms ...FrameMarshaller) {
	for _, fm := range fms {
		tx.SendFrame(fm)
	}
}

func (tx *TxDevice) mark(d time.Duration) {
	n := Ticks(d, tx.clock.TickPeriod())
	if n == 0 {
		return
	}
	tx.carrier.Enable()
	tx.clock.WaitTicks(n)
	tx.carrier.Disable()
}

func (tx *TxDevice) space(d time.Duration) {
	n := Ticks(d, tx.clock.TickPeriod())
	if n == 0 {
		return
	}
	tx.carrier.Disable()
	tx.clock.WaitTicks(n)
}
