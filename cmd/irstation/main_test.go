//go:build !tinygo

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sparques/irbadge/badge"
	"github.com/sparques/irbadge/station"
)

func TestReport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "station.db")

	db, err := station.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	repo := station.NewRepo(db)
	now := time.Now()
	if err := repo.RecordHeartbeat(ctx, station.Heartbeat{Badge: 4, Mode: uint8(badge.Zombie), Colour: badge.Red, LastHeard: now}); err != nil {
		t.Fatalf("RecordHeartbeat: %v", err)
	}
	if err := repo.RecordSighting(ctx, 4, 9, now); err != nil {
		t.Fatalf("RecordSighting: %v", err)
	}
	_ = db.Close()

	var out bytes.Buffer
	if err := run(ctx, []string{"-db", path, "-report", "-log-level", "error"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"badge   4", "zombie", "colour 03", "saw   9"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRunRejectsBadTag(t *testing.T) {
	err := run(context.Background(), []string{"-tag", "0", "-db", filepath.Join(t.TempDir(), "x.db")}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("run with tag 0 succeeded")
	}
}

func TestRunNeedsPort(t *testing.T) {
	err := run(context.Background(), []string{"-db", filepath.Join(t.TempDir(), "x.db"), "-log-level", "error"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("run without a port succeeded")
	}
}
