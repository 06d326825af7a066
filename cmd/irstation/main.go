//go:build !tinygo

// Command irstation records what a station badge hears into sqlite, or
// prints what is already recorded.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sparques/irbadge/badge"
	"github.com/sparques/irbadge/frame"
	"github.com/sparques/irbadge/internal/logging"
	"github.com/sparques/irbadge/station"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "irstation:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("irstation", flag.ContinueOnError)
	port := fs.String("port", "", "serial port of the station badge")
	baud := fs.Int("baud", 115200, "serial baud rate")
	dbPath := fs.String("db", "irstation.db", "sqlite database")
	tag := fs.Uint("tag", badge.DefaultTag, "badge edition tag")
	logLevel := fs.String("log-level", "info", "log level")
	report := fs.Bool("report", false, "print the recorded badges and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tag == 0 || *tag > 0xFF {
		return fmt.Errorf("tag must be 1..255, got %d", *tag)
	}

	logger, err := logging.New(*logLevel, nil)
	if err != nil {
		return err
	}

	db, err := station.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := station.NewRepo(db)

	if *report {
		return printReport(ctx, repo, out)
	}

	p, err := station.OpenSerial(*port, *baud)
	if err != nil {
		return err
	}
	defer p.Close()

	logger.Info("collecting", "port", *port, "db", *dbPath)
	c := station.NewCollector(frame.DefaultLayout, uint8(*tag), repo, logging.Component(logger, "collector"))
	return c.Run(ctx, station.NewLineReader(p))
}

func printReport(ctx context.Context, repo *station.Repo, out io.Writer) error {
	hbs, err := repo.Heartbeats(ctx)
	if err != nil {
		return err
	}
	for _, hb := range hbs {
		fmt.Fprintf(out, "badge %3d  %-18s colour %02X  last heard %s\n",
			hb.Badge, badge.Mode(hb.Mode), hb.Colour, hb.LastHeard.Format("2006-01-02 15:04:05"))
		sightings, err := repo.Sightings(ctx, hb.Badge)
		if err != nil {
			return err
		}
		for _, s := range sightings {
			fmt.Fprintf(out, "    saw %3d\n", s.Peer)
		}
	}
	return nil
}
