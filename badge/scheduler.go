package badge

import (
	"context"
	"log/slog"

	"github.com/sparques/irbadge"
	"github.com/sparques/irbadge/framebuf"
	"github.com/sparques/irbadge/nec"
)

// Display shows the badge colour. Fades and brightness are its business.
type Display interface {
	SetColour(colour uint8)
}

// Hardware is what a Scheduler drives. Rx must feed Buffer.
type Hardware struct {
	Tx      *irbadge.TxDevice
	Rx      *irbadge.RxDevice
	Buffer  *framebuf.Buffer
	Clock   irbadge.Clock
	Timing  nec.Timing
	Display Display
}

// Scheduler alternates a broadcast burst with a listen window, forever.
// Transmit and receive never overlap: the receiver is disabled for the whole
// burst since both share the optical front end.
type Scheduler struct {
	m   *Machine
	hw  Hardware
	log *slog.Logger
}

func NewScheduler(m *Machine, hw Hardware, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{m: m, hw: hw, log: logger}
}

func (s *Scheduler) Machine() *Machine {
	return s.m
}

// Cycle runs one broadcast burst, one listen window and the time based
// update.
func (s *Scheduler) Cycle() {
	s.broadcast()
	s.listen()

	s.m.Update()
	st := s.m.State()
	if s.hw.Display != nil {
		s.hw.Display.SetColour(st.Colour)
	}
	s.log.Debug("cycle done", "loop", st.Loop, "mode", st.Mode, "colour", st.Colour, "bites", st.Bites)
	s.m.NextLoop()
}

func (s *Scheduler) broadcast() {
	code := s.m.Code()

	s.hw.Rx.Disable()
	defer s.hw.Rx.Enable()

	if s.m.State().Mode == SendAllLedger {
		for _, c := range s.m.LedgerCodes() {
			s.send(c)
		}
	}
	for i := 0; i < s.m.cfg.Sends; i++ {
		s.send(code)
	}
}

func (s *Scheduler) send(code uint32) {
	s.hw.Tx.SendFrame(nec.Message{Timing: s.hw.Timing, Code: code})
	s.hw.Clock.WaitTicks(s.m.cfg.GapTicks)
}

func (s *Scheduler) listen() {
	for i := 0; i < s.m.cfg.ListenSlices; i++ {
		s.m.Drain(s.hw.Buffer)
		s.hw.Clock.WaitTicks(s.m.cfg.SliceTicks)
	}
	s.m.Drain(s.hw.Buffer)
}

// Run cycles until ctx is done. Firmware passes a context that never ends.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.hw.Display != nil {
		s.hw.Display.SetColour(s.m.State().Colour)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Cycle()
	}
}
