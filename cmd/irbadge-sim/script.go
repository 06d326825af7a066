//go:build !tinygo

package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/sparques/irbadge/badge"
)

// event is one remote button press, heard during the listen window of the
// given cycle.
type event struct {
	cycle int
	name  string
	code  uint32
}

// parseScript reads lines of the form
//
//	at <cycle> remote <reset|dezombify|dump>
//
// Blank lines and # comments are skipped. Events come back in cycle order.
func parseScript(r io.Reader, remote badge.RemoteCodes) ([]event, error) {
	var events []event
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields, err := shlex.Split(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 || fields[0] != "at" || fields[2] != "remote" {
			return nil, fmt.Errorf("line %d: want \"at <cycle> remote <button>\", got %q", lineNo, sc.Text())
		}
		cycle, err := strconv.Atoi(fields[1])
		if err != nil || cycle < 0 {
			return nil, fmt.Errorf("line %d: bad cycle %q", lineNo, fields[1])
		}
		name := strings.ToLower(fields[3])
		var code uint32
		switch name {
		case "reset":
			code = remote.Reset
		case "dezombify":
			code = remote.Dezombify
		case "dump":
			code = remote.Dump
		default:
			return nil, fmt.Errorf("line %d: unknown button %q", lineNo, fields[3])
		}
		events = append(events, event{cycle: cycle, name: name, code: code})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].cycle < events[j].cycle })
	return events, nil
}
