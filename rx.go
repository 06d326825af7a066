package irbadge

import "sync/atomic"

// RxStateMachine consumes one sampled Level per tick.
// Sample is called from interrupt context: it must not block or allocate.
type RxStateMachine interface {
	Sample(Level)
}

// Resetter is implemented by state machines that can drop a frame in
// progress. RxDevice resets on Enable so nothing heard before a pause is
// joined to what is heard after it.
type Resetter interface {
	Reset()
}

// RunLimiter is implemented by state machines for which every run longer
// than MaxRun ticks decodes the same. Edge never replays more than that.
type RunLimiter interface {
	MaxRun() int
}

// LevelReader reports the current demodulated input level.
type LevelReader interface {
	Level() Level
}

// RxDevice connects an input to an RxStateMachine. Its Tick method is the
// body of the fixed-period sampling interrupt.
type RxDevice struct {
	input        LevelReader
	stateMachine RxStateMachine
	maxRun       int
	enabled      atomic.Bool
}

// NewRxDevice returns a disabled RxDevice; call Enable to start sampling.
func NewRxDevice(input LevelReader, rsm RxStateMachine) *RxDevice {
	rx := &RxDevice{
		input:        input,
		stateMachine: rsm,
	}
	if rl, ok := rsm.(RunLimiter); ok {
		rx.maxRun = rl.MaxRun()
	}
	return rx
}

// Tick samples the input once and advances the state machine.
func (rx *RxDevice) Tick() {
	if !rx.enabled.Load() {
		return
	}
	rx.stateMachine.Sample(rx.input.Level())
}

// Edge is the edge-triggered counterpart of Tick for hardware that reports
// level changes instead of sampling on a timer. prev held for elapsed ticks
// before the input switched to next; next is fed for one tick so the state
// machine sees the change immediately. Long quiet stretches are cut to the
// state machine's MaxRun.
func (rx *RxDevice) Edge(prev, next Level, elapsed int) {
	if !rx.enabled.Load() {
		return
	}
	if rx.maxRun > 0 && elapsed > rx.maxRun {
		elapsed = rx.maxRun
	}
	for i := 0; i < elapsed; i++ {
		rx.stateMachine.Sample(prev)
	}
	rx.stateMachine.Sample(next)
}

// Enable starts feeding samples to the state machine, from a clean state.
func (rx *RxDevice) Enable() {
	if r, ok := rx.stateMachine.(Resetter); ok {
		r.Reset()
	}
	rx.enabled.Store(true)
}

// Disable stops feeding samples; used while transmitting.
func (rx *RxDevice) Disable() {
	rx.enabled.Store(false)
}

func (rx *RxDevice) Enabled() bool {
	return rx.enabled.Load()
}
