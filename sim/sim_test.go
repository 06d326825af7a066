//go:build !tinygo

package sim

import (
	"sync"
	"testing"
	"time"

	"github.com/sparques/irbadge"
)

type runLog struct {
	runs  []int
	level irbadge.Level
}

// Sample collapses samples into run lengths, starting with a mark.
func (r *runLog) Sample(l irbadge.Level) {
	if len(r.runs) == 0 {
		if l == irbadge.Space {
			return
		}
		r.runs = append(r.runs, 0)
		r.level = l
	}
	if l != r.level {
		r.runs = append(r.runs, 0)
		r.level = l
	}
	r.runs[len(r.runs)-1]++
}

func TestClockRunsHooksPerTick(t *testing.T) {
	c := NewClock(0)
	if c.TickPeriod() != irbadge.DefaultTick {
		t.Fatalf("TickPeriod = %v", c.TickPeriod())
	}
	var n int
	c.OnTick(func() { n++ })
	c.WaitTicks(7)
	c.WaitTicks(0)
	if n != 7 || c.Now() != 7 {
		t.Fatalf("hooks ran %d times at tick %d, want 7", n, c.Now())
	}
}

func TestLoopbackQuantises(t *testing.T) {
	c := NewClock(50 * time.Microsecond)
	var log runLog
	carrier := &Carrier{}
	tx, rx := Loopback(c, carrier, &log)
	if !rx.Enabled() {
		t.Fatal("loopback receiver not enabled")
	}

	tx.SendPairs(
		irbadge.TimePair{500 * time.Microsecond, 240 * time.Microsecond},
		irbadge.TimePair{1000 * time.Microsecond, 0},
	)
	c.WaitTicks(3)

	want := []int{10, 5, 20, 3}
	if len(log.runs) != len(want) {
		t.Fatalf("runs = %v, want %v", log.runs, want)
	}
	for i := range want {
		if log.runs[i] != want[i] {
			t.Fatalf("runs = %v, want %v", log.runs, want)
		}
	}
	if carrier.Marks() != 2 {
		t.Fatalf("Marks = %d, want 2", carrier.Marks())
	}
}

func TestFeed(t *testing.T) {
	var log runLog
	Feed(&log, 50*time.Microsecond, irbadge.TimePair{100 * time.Microsecond, 150 * time.Microsecond})
	FeedRuns(&log, 4, 1)
	if len(log.runs) != 4 || log.runs[0] != 2 || log.runs[1] != 3 || log.runs[2] != 4 || log.runs[3] != 1 {
		t.Fatalf("runs = %v, want [2 3 4 1]", log.runs)
	}
}

func TestAirDeliversBetweenNodes(t *testing.T) {
	air := NewAir(50 * time.Microsecond)
	a := air.Join()
	b := air.Join()

	var log runLog
	rx := irbadge.NewRxDevice(b, &log)
	b.OnTick(rx.Tick)
	rx.Enable()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer a.Leave()
		tx := irbadge.NewTxDevice(a, a)
		a.WaitTicks(5)
		tx.SendPairs(irbadge.TimePair{500 * time.Microsecond, 250 * time.Microsecond},
			irbadge.TimePair{250 * time.Microsecond, 0})
	}()
	b.WaitTicks(100)
	b.Leave()
	wg.Wait()

	want := []int{10, 5, 5, 75}
	if len(log.runs) != len(want) {
		t.Fatalf("runs = %v, want %v", log.runs, want)
	}
	for i := range want {
		if log.runs[i] != want[i] {
			t.Fatalf("runs = %v, want %v", log.runs, want)
		}
	}
	if air.Now() != 100 {
		t.Fatalf("air at tick %d, want 100", air.Now())
	}
}

func TestAirOwnCarrierIsSilent(t *testing.T) {
	air := NewAir(0)
	a := air.Join()
	var log runLog
	rx := irbadge.NewRxDevice(a, &log)
	a.OnTick(rx.Tick)
	rx.Enable()

	a.Enable()
	a.WaitTicks(10)
	a.Disable()
	a.Leave()
	if len(log.runs) != 0 {
		t.Fatalf("node heard itself: %v", log.runs)
	}
}
