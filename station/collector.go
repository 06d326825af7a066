//go:build !tinygo

package station

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sparques/irbadge/badge"
	"github.com/sparques/irbadge/frame"
	"github.com/sparques/irbadge/ledger"
)

type Collector struct {
	layout frame.Layout
	tag    uint8
	repo   *Repo
	log    *slog.Logger
	now    func() time.Time
}

func NewCollector(layout frame.Layout, tag uint8, repo *Repo, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		layout: layout,
		tag:    tag,
		repo:   repo,
		log:    logger,
		now:    time.Now,
	}
}

// Handle stores one received code. Ledger dump entries become sightings,
// every other badge frame a heartbeat. Codes from other senders are logged
// and dropped.
func (c *Collector) Handle(ctx context.Context, code uint32) error {
	if !c.layout.HasHeader(code, c.tag) {
		c.log.Debug("foreign code", "code", code)
		return nil
	}
	f := c.layout.Decode(code)
	at := c.now()

	if badge.Mode(f.Mode) == badge.SendAllLedger && f.Payload&ledger.SeenFlag != 0 {
		peer := f.Payload &^ ledger.SeenFlag
		c.log.Info("sighting", "badge", f.Sender, "peer", peer)
		return c.repo.RecordSighting(ctx, f.Sender, peer, at)
	}

	c.log.Debug("heartbeat", "badge", f.Sender, "mode", badge.Mode(f.Mode), "colour", f.Payload)
	return c.repo.RecordHeartbeat(ctx, Heartbeat{
		Badge:     f.Sender,
		Mode:      f.Mode,
		Colour:    f.Payload,
		LastHeard: at,
	})
}

// Run reads codes from lr until ctx is done or the stream ends. Lines that
// are not codes are logged and skipped.
func (c *Collector) Run(ctx context.Context, lr *LineReader) error {
	for {
		line, err := lr.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				c.log.Warn("dropping overlong line")
				continue
			}
			return err
		}
		if line == "" {
			continue
		}
		code, err := ParseCode(line)
		if err != nil {
			c.log.Warn("bad line", "line", line, "error", err)
			continue
		}
		if err := c.Handle(ctx, code); err != nil {
			return err
		}
	}
}
