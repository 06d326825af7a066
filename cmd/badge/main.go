//go:build tinygo

// Command badge is the badge firmware. The badge ID is stamped in at build
// time:
//
//	tinygo flash -target pico -ldflags="-X main.buildID=42" ./cmd/badge
package main

import (
	"context"
	"log/slog"
	"machine"

	"github.com/sparques/irbadge"
	"github.com/sparques/irbadge/badge"
	"github.com/sparques/irbadge/framebuf"
	"github.com/sparques/irbadge/ledger"
	"github.com/sparques/irbadge/nec"
)

// buildID is set at compile time via -ldflags
var buildID string

const (
	irLEDPin    = machine.GP2
	irRecvPin   = machine.GP3
	neoPixelPin = machine.GP16
)

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 115200})
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{Level: slog.LevelInfo}))

	id, err := badge.ParseID(buildID)
	if err != nil {
		logger.Error("bad build id, using 0", "error", err)
	}
	cfg := badge.DefaultConfig(id)

	timing := nec.DefaultTiming()
	if err := timing.Validate(); err != nil {
		logger.Error("bad ir timing", "error", err)
		return
	}
	clock := irbadge.NewBusyClock(timing.Tick)
	buf := framebuf.New(framebuf.DefaultCapacity)

	rx := irbadge.NewPinRxDevice(irRecvPin, timing.Tick, nec.NewStateMachine(timing, buf))
	tx := irbadge.NewPinTxDevice(irLEDPin, clock)

	var l *ledger.Ledger
	if store, err := ledger.OpenFlash(); err != nil {
		logger.Error("ledger unavailable", "error", err)
	} else {
		l = ledger.New(store)
	}

	m := badge.New(cfg, l, logger.With("component", "badge"))
	s := badge.NewScheduler(m, badge.Hardware{
		Tx:      tx,
		Rx:      rx.RxDevice,
		Buffer:  buf,
		Clock:   clock,
		Timing:  timing,
		Display: newPixel(neoPixelPin),
	}, logger.With("component", "scheduler"))

	logger.Info("badge up", "id", id, "tag", cfg.Tag)
	rx.Start()
	if err := s.Run(context.Background()); err != nil {
		logger.Error("scheduler stopped", "error", err)
	}
}
