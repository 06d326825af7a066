//go:build tinygo

package irbadge

import (
	. "machine"
	"time"
)

// PinRxDevice feeds an RxDevice from pin change interrupts on a demodulating
// receiver. Such receivers idle high and pull low while they see carrier, so
// a low pin is a Mark.
type PinRxDevice struct {
	*RxDevice
	pin       Pin
	tick      time.Duration
	lastEdge  time.Time
	lastLevel Level
}

func NewPinRxDevice(pin Pin, tick time.Duration, rsm RxStateMachine) *PinRxDevice {
	// the most common receivers have a pull up pin builtin
	// but in the future, may want to add the option to use PinPullupInput
	pin.Configure(PinConfig{Mode: PinInput})
	if tick <= 0 {
		tick = DefaultTick
	}
	prx := &PinRxDevice{
		pin:       pin,
		tick:      tick,
		lastEdge:  time.Now(),
		lastLevel: Space,
	}
	prx.RxDevice = NewRxDevice(prx, rsm)
	return prx
}

// Level implements LevelReader.
func (prx *PinRxDevice) Level() Level {
	if prx.pin.Get() {
		return Space
	}
	return Mark
}

func (prx *PinRxDevice) interruptHandler(interruptPin Pin) {
	ptime := time.Now()
	level := Mark
	if interruptPin.Get() {
		level = Space
	}
	// one tick of the new level is fed immediately by Edge
	elapsed := Ticks(ptime.Sub(prx.lastEdge), prx.tick) - 1
	if elapsed < 0 {
		elapsed = 0
	}
	prx.Edge(prx.lastLevel, level, elapsed)
	prx.lastLevel = level
	prx.lastEdge = ptime
}

// Start sets the interrupt handler and enables sampling.
func (prx *PinRxDevice) Start() {
	prx.lastEdge = time.Now()
	prx.lastLevel = prx.Level()
	prx.pin.SetInterrupt(PinFalling|PinRising, prx.interruptHandler)
	prx.Enable()
}

// Stop disables the interrupt handler.
func (prx *PinRxDevice) Stop() {
	prx.Disable()
	prx.pin.SetInterrupt(PinFalling|PinRising, nil)
}
