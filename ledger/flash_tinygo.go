//go:build tinygo

package ledger

import (
	"fmt"
	"machine"
)

// FlashStore keeps the ledger at the start of the MCU's data flash area.
// Bytes are stored inverted: erased flash reads back as zero (unseen) and
// recording a marker only ever clears bits, so no erase cycle is needed.
type FlashStore struct {
	cache [Size]byte
}

func OpenFlash() (*FlashStore, error) {
	fs := &FlashStore{}
	var raw [Size]byte
	if _, err := machine.Flash.ReadAt(raw[:], 0); err != nil {
		return nil, fmt.Errorf("read flash ledger: %w", err)
	}
	for i, b := range raw {
		fs.cache[i] = ^b
	}
	return fs, nil
}

func (fs *FlashStore) Get(off int) (byte, error) {
	if off < 0 || off >= Size {
		return 0, fmt.Errorf("%w: offset %d", ErrIDRange, off)
	}
	return fs.cache[off], nil
}

func (fs *FlashStore) Set(off int, b byte) error {
	if off < 0 || off >= Size {
		return fmt.Errorf("%w: offset %d", ErrIDRange, off)
	}
	fs.cache[off] = b
	var raw [Size]byte
	for i, c := range fs.cache {
		raw[i] = ^c
	}
	if _, err := machine.Flash.WriteAt(raw[:], 0); err != nil {
		return fmt.Errorf("write flash ledger: %w", err)
	}
	return nil
}
