package badge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sparques/irbadge/frame"
	"github.com/sparques/irbadge/ledger"
)

var ErrConfig = errors.New("invalid badge config")

const (
	DefaultTag             = 0xBB
	DefaultBittenMax       = 1
	DefaultMaxTimeInfected = 30
	DefaultSends           = 3
	DefaultListenSlices    = 730
	DefaultSliceTicks      = 20
	DefaultGapTicks        = 200
)

// RemoteCodes are the codes of a stock remote that steer every badge.
// A received code matches when code&Mask equals the command.
type RemoteCodes struct {
	Mask      uint32 `json:"mask"`
	Reset     uint32 `json:"reset"`
	Dezombify uint32 `json:"dezombify"`
	Dump      uint32 `json:"dump"`
}

// AppleRemote is the aluminium Apple remote as received LSB first; the top
// byte is the per-remote pairing ID and is masked off.
var AppleRemote = RemoteCodes{
	Mask:      0x00FFFFFF,
	Reset:     0x000D87EE, // volume down
	Dezombify: 0x000487EE, // play
	Dump:      0x000287EE, // menu
}

// Config describes one badge and its edition.
type Config struct {
	ID     uint8        `json:"id"`
	Tag    uint8        `json:"tag"`
	Layout frame.Layout `json:"layout"`
	Remote RemoteCodes  `json:"remote"`

	// BittenMax is the number of zombie bites survived; one more infects.
	BittenMax int `json:"bitten_max"`
	// MaxTimeInfected is the number of cycles before infected turns zombie.
	MaxTimeInfected int `json:"max_time_infected"`

	// Sends is the number of copies of the own code per broadcast burst.
	Sends int `json:"sends"`
	// GapTicks of silence follow every frame so its stop mark ends before
	// the next header starts.
	GapTicks int `json:"gap_ticks"`
	// ListenSlices x SliceTicks is the listen window.
	ListenSlices int `json:"listen_slices"`
	SliceTicks   int `json:"slice_ticks"`
}

func DefaultConfig(id uint8) Config {
	return Config{
		ID:              id,
		Tag:             DefaultTag,
		Layout:          frame.DefaultLayout,
		Remote:          AppleRemote,
		BittenMax:       DefaultBittenMax,
		MaxTimeInfected: DefaultMaxTimeInfected,
		Sends:           DefaultSends,
		GapTicks:        DefaultGapTicks,
		ListenSlices:    DefaultListenSlices,
		SliceTicks:      DefaultSliceTicks,
	}
}

func (c *Config) FillMissingDefaults() {
	if c.Tag == 0 {
		c.Tag = DefaultTag
	}
	if c.Layout == (frame.Layout{}) {
		c.Layout = frame.DefaultLayout
	}
	if c.Remote == (RemoteCodes{}) {
		c.Remote = AppleRemote
	}
	if c.BittenMax <= 0 {
		c.BittenMax = DefaultBittenMax
	}
	if c.MaxTimeInfected <= 0 {
		c.MaxTimeInfected = DefaultMaxTimeInfected
	}
	if c.Sends <= 0 {
		c.Sends = DefaultSends
	}
	if c.GapTicks <= 0 {
		c.GapTicks = DefaultGapTicks
	}
	if c.ListenSlices <= 0 {
		c.ListenSlices = DefaultListenSlices
	}
	if c.SliceTicks <= 0 {
		c.SliceTicks = DefaultSliceTicks
	}
}

func (c Config) Validate() error {
	if int(c.ID) >= ledger.Size {
		return fmt.Errorf("%w: id %d outside 0..%d", ErrConfig, c.ID, ledger.Size-1)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if c.Tag == 0 {
		return fmt.Errorf("%w: tag must be non-zero", ErrConfig)
	}
	if c.Remote.Mask&c.Layout.HeaderMask() == c.Layout.HeaderMask() {
		for _, code := range []uint32{c.Remote.Reset, c.Remote.Dezombify, c.Remote.Dump} {
			if c.Layout.HasHeader(code, c.Tag) {
				return fmt.Errorf("%w: remote code %08X carries the badge tag", ErrConfig, code)
			}
		}
	}
	if c.Sends < 1 || c.GapTicks < 1 || c.ListenSlices < 1 || c.SliceTicks < 1 {
		return fmt.Errorf("%w: burst and listen settings must be positive", ErrConfig)
	}
	return nil
}

// ParseID parses a badge ID as stamped into firmware at build time, decimal
// or 0x prefixed hex.
func ParseID(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty badge id", ErrConfig)
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: badge id %q: %w", ErrConfig, s, err)
	}
	if int(v) >= ledger.Size {
		return 0, fmt.Errorf("%w: id %d outside 0..%d", ErrConfig, v, ledger.Size-1)
	}
	return uint8(v), nil
}
