//go:build !tinygo

package sim

import (
	"sync"
	"time"

	"github.com/sparques/irbadge"
)

// Air is an optical medium shared by several simulated badges, each running
// its main loop in its own goroutine. Time is global and moves in lock-step:
// it only advances once every joined node is parked in WaitTicks, and each
// tick runs every node's tick hooks (their receive interrupts) while all of
// them are parked. A node sees Mark whenever any other node's carrier is on.
type Air struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tick   time.Duration
	now    int64
	nodes  []*Node
	parked int
}

func NewAir(tick time.Duration) *Air {
	if tick <= 0 {
		tick = irbadge.DefaultTick
	}
	a := &Air{tick: tick}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Now is the number of ticks elapsed.
func (a *Air) Now() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now
}

// Join adds a node. Join every node before starting any of them so none
// runs ahead of the others.
func (a *Air) Join() *Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := &Node{air: a}
	a.nodes = append(a.nodes, n)
	return n
}

// advance moves time forward while every node is parked. Called with mu held.
func (a *Air) advance() {
	for len(a.nodes) > 0 && a.parked == len(a.nodes) {
		wake := a.nodes[0].wake
		for _, n := range a.nodes[1:] {
			wake = min(wake, n.wake)
		}
		for a.now < wake {
			a.now++
			for _, n := range a.nodes {
				for _, fn := range n.hooks {
					fn()
				}
			}
		}
		for _, n := range a.nodes {
			if n.waiting && n.wake <= a.now {
				n.waiting = false
				a.parked--
			}
		}
		a.cond.Broadcast()
	}
}

// Node is one badge's view of the Air. It is the badge's Clock, Carrier and
// receiver input at once.
type Node struct {
	air     *Air
	on      bool
	waiting bool
	wake    int64
	hooks   []func()
}

// OnTick registers fn as this node's tick interrupt. Register before the
// node starts waiting.
func (n *Node) OnTick(fn func()) {
	n.air.mu.Lock()
	defer n.air.mu.Unlock()
	n.hooks = append(n.hooks, fn)
}

func (n *Node) WaitTicks(ticks int) {
	if ticks <= 0 {
		return
	}
	a := n.air
	a.mu.Lock()
	defer a.mu.Unlock()
	n.wake = a.now + int64(ticks)
	n.waiting = true
	a.parked++
	a.advance()
	for n.waiting {
		a.cond.Wait()
	}
}

func (n *Node) TickPeriod() time.Duration {
	return n.air.tick
}

func (n *Node) Enable() {
	n.air.mu.Lock()
	n.on = true
	n.air.mu.Unlock()
}

func (n *Node) Disable() {
	n.air.mu.Lock()
	n.on = false
	n.air.mu.Unlock()
}

// Level reports Mark if another node is transmitting. It is only meant to be
// called from tick hooks, which run with the Air locked.
func (n *Node) Level() irbadge.Level {
	for _, o := range n.air.nodes {
		if o != n && o.on {
			return irbadge.Mark
		}
	}
	return irbadge.Space
}

// Leave removes the node; remaining nodes keep running without it.
func (n *Node) Leave() {
	a := n.air
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, o := range a.nodes {
		if o == n {
			a.nodes = append(a.nodes[:i], a.nodes[i+1:]...)
			break
		}
	}
	n.on = false
	a.advance()
}
