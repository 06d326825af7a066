// Package ledger is the persisted set of badge IDs seen over IR.
//
// The ledger is Size bytes of non-volatile storage, one per possible sender
// ID. Zero means never seen; anything else is the marker written the first
// time the ID was heard. Markers are never cleared or rewritten.
package ledger

import (
	"errors"
	"fmt"
)

const (
	// Size is the number of possible sender IDs.
	Size = 128

	// SeenFlag is set in every marker so a marker is never zero.
	SeenFlag = 0x80
)

var ErrIDRange = errors.New("badge id out of ledger range")

// Store is byte addressable non-volatile memory.
type Store interface {
	Get(off int) (byte, error)
	Set(off int, b byte) error
}

type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// MarkerFor is the byte recorded for id.
func MarkerFor(id uint8) byte {
	return SeenFlag | id&(Size-1)
}

func checkID(id uint8) error {
	if int(id) >= Size {
		return fmt.Errorf("%w: %d", ErrIDRange, id)
	}
	return nil
}

// Marker returns the stored byte for id; zero if unseen.
func (l *Ledger) Marker(id uint8) (byte, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	b, err := l.store.Get(int(id))
	if err != nil {
		return 0, fmt.Errorf("read ledger entry %d: %w", id, err)
	}
	return b, nil
}

func (l *Ledger) Seen(id uint8) (bool, error) {
	b, err := l.Marker(id)
	return b != 0, err
}

// Record marks id as seen. It reports whether this call wrote the entry;
// an entry that is already set is left untouched.
func (l *Ledger) Record(id uint8) (bool, error) {
	seen, err := l.Seen(id)
	if err != nil || seen {
		return false, err
	}
	if err := l.store.Set(int(id), MarkerFor(id)); err != nil {
		return false, fmt.Errorf("write ledger entry %d: %w", id, err)
	}
	return true, nil
}

// Next scans forward from the entry after from, wrapping past the end, and
// returns the first seen ID and its marker. from itself is checked last.
// ok is false when the ledger is empty.
func (l *Ledger) Next(from uint8) (id uint8, marker byte, ok bool, err error) {
	if err := checkID(from); err != nil {
		return 0, 0, false, err
	}
	for i := 1; i <= Size; i++ {
		off := (int(from) + i) % Size
		b, err := l.store.Get(off)
		if err != nil {
			return 0, 0, false, fmt.Errorf("read ledger entry %d: %w", off, err)
		}
		if b != 0 {
			return uint8(off), b, true, nil
		}
	}
	return 0, 0, false, nil
}

// Entry is one seen ID.
type Entry struct {
	ID     uint8
	Marker byte
}

// Entries lists the seen IDs in ascending order.
func (l *Ledger) Entries() ([]Entry, error) {
	var out []Entry
	for off := 0; off < Size; off++ {
		b, err := l.store.Get(off)
		if err != nil {
			return out, fmt.Errorf("read ledger entry %d: %w", off, err)
		}
		if b != 0 {
			out = append(out, Entry{ID: uint8(off), Marker: b})
		}
	}
	return out, nil
}

// MemStore keeps the ledger in RAM.
type MemStore [Size]byte

func (m *MemStore) Get(off int) (byte, error) {
	if off < 0 || off >= Size {
		return 0, fmt.Errorf("%w: offset %d", ErrIDRange, off)
	}
	return m[off], nil
}

func (m *MemStore) Set(off int, b byte) error {
	if off < 0 || off >= Size {
		return fmt.Errorf("%w: offset %d", ErrIDRange, off)
	}
	m[off] = b
	return nil
}
