//go:build !tinygo

// Package sim is virtual badge hardware for host builds: a tick clock that
// runs the sampling interrupt synchronously, a recording carrier, and a
// shared optical medium for running several badges against each other.
package sim

import (
	"time"

	"github.com/sparques/irbadge"
)

// Clock is a virtual tick source. Every tick runs the registered hooks, in
// the order they were added, before time moves on.
type Clock struct {
	tick  time.Duration
	now   int64
	hooks []func()
}

func NewClock(tick time.Duration) *Clock {
	if tick <= 0 {
		tick = irbadge.DefaultTick
	}
	return &Clock{tick: tick}
}

// OnTick registers fn as a tick interrupt handler.
func (c *Clock) OnTick(fn func()) {
	c.hooks = append(c.hooks, fn)
}

func (c *Clock) WaitTicks(n int) {
	for i := 0; i < n; i++ {
		c.now++
		for _, fn := range c.hooks {
			fn()
		}
	}
}

func (c *Clock) TickPeriod() time.Duration {
	return c.tick
}

// Now is the number of ticks elapsed.
func (c *Clock) Now() int64 {
	return c.now
}

// Carrier remembers whether it is on and counts the marks it produced.
type Carrier struct {
	on    bool
	marks int
}

func (c *Carrier) Enable() {
	if !c.on {
		c.marks++
	}
	c.on = true
}

func (c *Carrier) Disable() {
	c.on = false
}

// Level implements irbadge.LevelReader, making a Carrier its own receiver.
func (c *Carrier) Level() irbadge.Level {
	if c.on {
		return irbadge.Mark
	}
	return irbadge.Space
}

// Marks is the number of distinct marks sent so far.
func (c *Carrier) Marks() int {
	return c.marks
}

// Loopback wires a transmitter straight into a receive state machine: every
// tick of clock samples the carrier. The returned RxDevice is enabled.
func Loopback(clock *Clock, carrier *Carrier, rsm irbadge.RxStateMachine) (*irbadge.TxDevice, *irbadge.RxDevice) {
	rx := irbadge.NewRxDevice(carrier, rsm)
	clock.OnTick(rx.Tick)
	rx.Enable()
	return irbadge.NewTxDevice(carrier, clock), rx
}

// Level is a fixed LevelReader.
type Level irbadge.Level

func (l *Level) Level() irbadge.Level {
	return irbadge.Level(*l)
}

// Feed plays pairs into rsm one tick sample at a time, quantised to tick.
func Feed(rsm irbadge.RxStateMachine, tick time.Duration, pairs ...irbadge.TimePair) {
	for _, p := range pairs {
		for i := irbadge.Ticks(p[0], tick); i > 0; i-- {
			rsm.Sample(irbadge.Mark)
		}
		for i := irbadge.Ticks(p[1], tick); i > 0; i-- {
			rsm.Sample(irbadge.Space)
		}
	}
}

// FeedRuns plays alternating mark/space run lengths, in ticks, starting with
// a mark.
func FeedRuns(rsm irbadge.RxStateMachine, runs ...int) {
	level := irbadge.Mark
	for _, n := range runs {
		for i := 0; i < n; i++ {
			rsm.Sample(level)
		}
		if level == irbadge.Mark {
			level = irbadge.Space
		} else {
			level = irbadge.Mark
		}
	}
}
