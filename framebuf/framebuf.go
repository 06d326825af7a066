// Package framebuf is the hand-off between the receive interrupt and the
// main loop: a fixed ring of decoded codes with one writer and one reader.
//
// A slot holding zero is empty. The writer never blocks; once the ring is
// full it silently overwrites the oldest unread code. The reader zeroes each
// slot after handling it. Slots are atomic words so a code is never observed
// half written.
package framebuf

import "sync/atomic"

// DefaultCapacity is the number of slots in the reference design.
const DefaultCapacity = 8

type Buffer struct {
	slots []atomic.Uint32
	w     atomic.Uint32
}

func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{slots: make([]atomic.Uint32, capacity)}
}

func (b *Buffer) Cap() int {
	return len(b.slots)
}

// Put stores code at the write index and advances it. Writer side only.
// A zero code is indistinguishable from an empty slot and is never drained.
func (b *Buffer) Put(code uint32) {
	w := b.w.Load()
	b.slots[w].Store(code)
	b.w.Store((w + 1) % uint32(len(b.slots)))
}

// Drain calls fn for every non-empty slot, oldest first, and clears it.
// Reader side only. It returns the number of codes handled.
func (b *Buffer) Drain(fn func(code uint32)) int {
	n := len(b.slots)
	start := int(b.w.Load())
	handled := 0
	for i := 0; i < n; i++ {
		slot := &b.slots[(start+i)%n]
		code := slot.Load()
		if code == 0 {
			continue
		}
		fn(code)
		// leave the slot alone if the writer replaced it meanwhile
		slot.CompareAndSwap(code, 0)
		handled++
	}
	return handled
}

// Pending counts the non-empty slots.
func (b *Buffer) Pending() int {
	n := 0
	for i := range b.slots {
		if b.slots[i].Load() != 0 {
			n++
		}
	}
	return n
}
