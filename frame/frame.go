// Package frame maps the fields of a badge broadcast onto the 32-bit code
// carried by the IR protocol.
//
// The default layout, most significant byte first:
//
//	+--------+--------+--------+---------+
//	| Header | Sender |  Mode  | Payload |
//	+--------+--------+--------+---------+
//	| 31..24 | 23..16 | 15..8  |  7..0   |
//	+--------+--------+--------+---------+
//
// Header is the edition's constant tag; remote controls never carry it.
// Other editions move or narrow fields, hence Layout.
package frame

import (
	"errors"
	"fmt"
)

var ErrLayout = errors.New("invalid frame layout")

// Frame is one decoded broadcast.
type Frame struct {
	Header  uint8
	Sender  uint8
	Mode    uint8
	Payload uint8
}

// Field is a bit range within the code.
type Field struct {
	Shift uint `json:"shift"`
	Width uint `json:"width"`
}

func (f Field) mask() uint32 {
	return (uint32(1)<<f.Width - 1) << f.Shift
}

func (f Field) get(code uint32) uint8 {
	return uint8((code & f.mask()) >> f.Shift)
}

func (f Field) put(v uint8) uint32 {
	return (uint32(v) << f.Shift) & f.mask()
}

type Layout struct {
	Header  Field `json:"header"`
	Sender  Field `json:"sender"`
	Mode    Field `json:"mode"`
	Payload Field `json:"payload"`
}

var DefaultLayout = Layout{
	Header:  Field{Shift: 24, Width: 8},
	Sender:  Field{Shift: 16, Width: 8},
	Mode:    Field{Shift: 8, Width: 8},
	Payload: Field{Shift: 0, Width: 8},
}

// Encode packs f. Values wider than their field are truncated.
func (l Layout) Encode(f Frame) uint32 {
	return l.Header.put(f.Header) |
		l.Sender.put(f.Sender) |
		l.Mode.put(f.Mode) |
		l.Payload.put(f.Payload)
}

func (l Layout) Decode(code uint32) Frame {
	return Frame{
		Header:  l.Header.get(code),
		Sender:  l.Sender.get(code),
		Mode:    l.Mode.get(code),
		Payload: l.Payload.get(code),
	}
}

// HeaderMask selects the header bits of a code.
func (l Layout) HeaderMask() uint32 {
	return l.Header.mask()
}

// HasHeader reports whether code carries tag in its header field.
func (l Layout) HasHeader(code uint32, tag uint8) bool {
	return code&l.Header.mask() == l.Header.put(tag)
}

func (l Layout) Validate() error {
	fields := []struct {
		name string
		f    Field
	}{
		{"header", l.Header},
		{"sender", l.Sender},
		{"mode", l.Mode},
		{"payload", l.Payload},
	}
	var used uint32
	for _, fd := range fields {
		if fd.f.Width < 1 || fd.f.Width > 8 {
			return fmt.Errorf("%w: %s width %d outside 1..8", ErrLayout, fd.name, fd.f.Width)
		}
		if fd.f.Shift+fd.f.Width > 32 {
			return fmt.Errorf("%w: %s field ends past bit 31", ErrLayout, fd.name)
		}
		m := fd.f.mask()
		if used&m != 0 {
			return fmt.Errorf("%w: %s field overlaps another field", ErrLayout, fd.name)
		}
		used |= m
	}
	return nil
}
