//go:build tinygo

// Command station is the firmware for a receive-only badge plugged into a
// host. It prints every decoded code as a hex line for irstation to collect.
package main

import (
	"machine"
	"time"

	"github.com/sparques/irbadge"
	"github.com/sparques/irbadge/framebuf"
	"github.com/sparques/irbadge/nec"
	"github.com/sparques/irbadge/station"
)

const irRecvPin = machine.GP3

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 115200})

	timing := nec.DefaultTiming()
	if err := timing.Validate(); err != nil {
		println("bad ir timing:", err.Error())
		return
	}
	buf := framebuf.New(framebuf.DefaultCapacity)
	rx := irbadge.NewPinRxDevice(irRecvPin, timing.Tick, nec.NewStateMachine(timing, buf))
	rx.Start()

	line := make([]byte, 0, station.LineLen)
	for {
		buf.Drain(func(code uint32) {
			line = station.AppendCode(line[:0], code)
			_, _ = machine.Serial.Write(line)
		})
		time.Sleep(time.Millisecond)
	}
}
