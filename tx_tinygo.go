//go:build tinygo

package irbadge

import (
	. "machine"

	"github.com/sparques/pwm"
)

// PWMCarrier produces the 38kHz carrier on a PWM capable pin.
type PWMCarrier struct {
	pin    Pin
	pgroup pwm.Group
	ch     uint8
	duty   uint32
	freq   uint64
}

func NewPWMCarrier(pin Pin) *PWMCarrier {
	pin.Configure(PinConfig{Mode: PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(PWMConfig{Period: uint64(1e9) / uint64(Freq38Khz)})
	ch, _ := pgroup.Channel(pin)
	pgroup.Set(ch, 0)
	return &PWMCarrier{
		pin:    pin,
		pgroup: pgroup,
		ch:     ch,
		duty:   pgroup.Top() / 2,
		freq:   Freq38Khz,
	}
}

func (c *PWMCarrier) Enable() {
	c.pgroup.Set(c.ch, c.duty)
}

func (c *PWMCarrier) Disable() {
	c.pgroup.Set(c.ch, 0)
}

// NewPinTxDevice configures pin as a carrier output timed by clock.
func NewPinTxDevice(pin Pin, clock Clock) *TxDevice {
	return NewTxDevice(NewPWMCarrier(pin), clock)
}
