//go:build !tinygo

// Command irbadge-sim runs several badges against each other on a simulated
// optical medium, optionally steered by a scripted remote, and prints where
// each one ended up.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/sparques/irbadge"
	"github.com/sparques/irbadge/badge"
	"github.com/sparques/irbadge/framebuf"
	"github.com/sparques/irbadge/internal/config"
	"github.com/sparques/irbadge/internal/logging"
	"github.com/sparques/irbadge/ledger"
	"github.com/sparques/irbadge/nec"
	"github.com/sparques/irbadge/sim"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "irbadge-sim:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("irbadge-sim", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to simulator config JSON")
	cycles := fs.Int("cycles", 0, "number of cycles to run (overrides config)")
	scriptPath := fs.String("script", "", "remote control script")
	logLevel := fs.String("log-level", "", "log level (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *cycles > 0 {
		cfg.Cycles = *cycles
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, nil)
	if err != nil {
		return err
	}

	var events []event
	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		events, err = parseScript(f, cfg.Edition.Remote)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("parse script: %w", err)
		}
	}

	states, err := simulate(context.Background(), cfg, nec.DefaultTiming(), events, logger)
	if err != nil {
		return err
	}
	for i, b := range cfg.Badges {
		st := states[i]
		fmt.Fprintf(out, "badge %3d  %-18s colour %02X  bites %d  loop %d\n",
			b.ID, st.Mode, st.Colour, st.Bites, st.Loop)
	}
	return nil
}

// simulate runs every badge for cfg.Cycles cycles and returns their final
// states in config order.
func simulate(ctx context.Context, cfg config.SimConfig, timing nec.Timing, events []event, logger *slog.Logger) ([]badge.State, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	air := sim.NewAir(timing.Tick)
	cycleTicks := cycleLength(cfg.Edition, timing)
	stagger := cycleTicks / (len(cfg.Badges) + 1)

	schedulers := make([]*badge.Scheduler, 0, len(cfg.Badges))
	nodes := make([]*sim.Node, 0, len(cfg.Badges))
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	for _, b := range cfg.Badges {
		node := air.Join()
		buf := framebuf.New(framebuf.DefaultCapacity)
		rx := irbadge.NewRxDevice(node, nec.NewStateMachine(timing, buf))
		node.OnTick(rx.Tick)
		rx.Enable()

		store, closer, err := openStore(ctx, b.Ledger)
		if err != nil {
			return nil, fmt.Errorf("badge %d: %w", b.ID, err)
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		l := ledger.New(store)
		for _, id := range b.Seen {
			if _, err := l.Record(id); err != nil {
				return nil, fmt.Errorf("badge %d: seed ledger: %w", b.ID, err)
			}
		}

		log := logging.Component(logger, "badge").With("id", b.ID)
		m := badge.New(cfg.BadgeConfig(b), l, log)
		if b.Mode != badge.Normal {
			st := m.State()
			st.Mode = b.Mode
			m.SetState(st)
		}
		schedulers = append(schedulers, badge.NewScheduler(m, badge.Hardware{
			Tx:     irbadge.NewTxDevice(node, node),
			Rx:     rx,
			Buffer: buf,
			Clock:  node,
			Timing: timing,
		}, log))
		nodes = append(nodes, node)
	}

	var remote *sim.Node
	if len(events) > 0 {
		remote = air.Join()
	}

	var wg sync.WaitGroup
	for i := range schedulers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer nodes[i].Leave()
			nodes[i].WaitTicks(i * stagger)
			for c := 0; c < cfg.Cycles; c++ {
				schedulers[i].Cycle()
			}
		}(i)
	}
	if remote != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer remote.Leave()
			press(remote, air, events, cfg.Edition, timing, cycleTicks, stagger, len(schedulers), logging.Component(logger, "remote"))
		}()
	}
	wg.Wait()

	states := make([]badge.State, len(schedulers))
	for i, s := range schedulers {
		states[i] = s.Machine().State()
	}
	return states, nil
}

// press plays the remote events. A press lands in the slot after the last
// badge's burst, when every badge should be listening, and is held for
// cfg.Sends frames like a button kept down.
func press(node *sim.Node, air *sim.Air, events []event, cfg badge.Config, timing nec.Timing, cycleTicks, stagger, badges int, log *slog.Logger) {
	tx := irbadge.NewTxDevice(node, node)
	for _, ev := range events {
		at := int64(ev.cycle*cycleTicks + badges*stagger)
		if now := air.Now(); at > now {
			node.WaitTicks(int(at - now))
		}
		for i := 0; i < cfg.Sends; i++ {
			tx.SendFrame(nec.Message{Timing: timing, Code: ev.code})
			node.WaitTicks(cfg.GapTicks)
		}
		log.Info("pressed", "button", ev.name, "cycle", ev.cycle)
	}
}

func openStore(ctx context.Context, path string) (ledger.Store, io.Closer, error) {
	if path == "" {
		return &ledger.MemStore{}, nil, nil
	}
	s, err := ledger.OpenSQLite(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

// cycleLength is the number of ticks in one ordinary broadcast and listen
// cycle. Frame length depends on the code sent, so real cycles drift from it
// by a few hundred ticks.
func cycleLength(cfg badge.Config, timing nec.Timing) int {
	frameTicks := 0
	for _, p := range timing.Marshal(0) {
		frameTicks += irbadge.Ticks(p[0], timing.Tick) + irbadge.Ticks(p[1], timing.Tick)
	}
	return cfg.Sends*(frameTicks+cfg.GapTicks) + cfg.ListenSlices*cfg.SliceTicks
}
