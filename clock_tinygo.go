//go:build tinygo

package irbadge

import "time"

// BusyClock spins on the monotonic clock. It never yields, matching the
// timing needs of the transmitter.
type BusyClock struct {
	tick time.Duration
}

func NewBusyClock(tick time.Duration) *BusyClock {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &BusyClock{tick: tick}
}

func (c *BusyClock) WaitTicks(n int) {
	deadline := time.Now().Add(time.Duration(n) * c.tick)
	for time.Now().Before(deadline) {
	}
}

func (c *BusyClock) TickPeriod() time.Duration {
	return c.tick
}
