//go:build !tinygo

package station

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
)

const defaultSerialReadTimeout = 300 * time.Millisecond

// maxLine bounds a line from the receiver; codes are eight hex digits.
const maxLine = 64

var ErrLineTooLong = errors.New("station line too long")

// OpenSerial opens the port the receiving badge prints codes on.
func OpenSerial(name string, baud int) (serial.Port, error) {
	if name == "" {
		return nil, errors.New("serial port is empty")
	}
	if baud <= 0 {
		return nil, fmt.Errorf("invalid serial baud rate: %d", baud)
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", name, err)
	}
	if err := port.SetReadTimeout(defaultSerialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set serial read timeout: %w", err)
	}
	return port, nil
}

// LineReader splits a byte stream into lines. Reads returning no data, as a
// serial port does on timeout, are retried until ctx is done.
type LineReader struct {
	r   io.Reader
	buf []byte
	tmp [maxLine]byte
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

// ReadLine returns the next line without its terminator.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	for {
		if i := bytes.IndexByte(lr.buf, '\n'); i >= 0 {
			line := string(lr.buf[:i])
			lr.buf = lr.buf[i+1:]
			return strings.TrimRight(line, "\r"), nil
		}
		if len(lr.buf) > maxLine {
			lr.buf = lr.buf[:0]
			return "", ErrLineTooLong
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := lr.r.Read(lr.tmp[:])
		lr.buf = append(lr.buf, lr.tmp[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lr.buf) > 0 {
				line := string(lr.buf)
				lr.buf = lr.buf[:0]
				return strings.TrimRight(line, "\r"), nil
			}
			return "", err
		}
	}
}

// ParseCode parses a code printed as hex, with or without a 0x prefix.
func ParseCode(line string) (uint32, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, errors.New("empty code")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse code %q: %w", line, err)
	}
	return uint32(v), nil
}
