package max11210

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mklimuk/adc"
)

type event struct {
	kind string // config, cs+, cs-, tx, sleep
	b    byte
	d    time.Duration
}

func (e event) String() string {
	switch e.kind {
	case "tx":
		return fmt.Sprintf("tx %#02x", e.b)
	case "sleep":
		return fmt.Sprintf("sleep %s", e.d)
	}
	return e.kind
}

// fakeChip simulates the MAX11210 register file behind the framing protocol
// and records everything that happens on the wire.
type fakeChip struct {
	regs     [9]uint32
	events   []event
	configs  []adc.BusConfig
	commands []byte
	selected bool
	window   []byte
	closed   bool

	// readyAfter is the number of polls answered with "not ready"; negative never gets ready
	readyAfter int
	polls      int
	readyErr   error
	txErr      error
}

func newFakeChip() *fakeChip {
	return &fakeChip{}
}

func (c *fakeChip) Configure(ctx context.Context, cfg adc.BusConfig) error {
	c.configs = append(c.configs, cfg)
	c.events = append(c.events, event{kind: "config"})
	c.closed = false
	return nil
}

func (c *fakeChip) Close() error {
	c.closed = true
	return nil
}

func (c *fakeChip) SetChipSelect(ctx context.Context, active bool) error {
	if active {
		c.events = append(c.events, event{kind: "cs+"})
		c.selected = true
		c.window = nil
		return nil
	}
	c.events = append(c.events, event{kind: "cs-"})
	if len(c.window) == 1 && c.window[0]&frameMode == 0 {
		c.commands = append(c.commands, c.window[0]&0x3F)
	}
	c.selected = false
	c.window = nil
	return nil
}

func (c *fakeChip) Ready(ctx context.Context) (bool, error) {
	if c.readyErr != nil {
		return false, c.readyErr
	}
	c.polls++
	if c.readyAfter < 0 {
		return false, nil
	}
	return c.polls > c.readyAfter, nil
}

func width(r Register) int {
	if r.Wide() {
		return 3
	}
	return 1
}

func (c *fakeChip) Transfer(ctx context.Context, out byte) (byte, error) {
	if c.txErr != nil {
		return 0, c.txErr
	}
	if !c.selected {
		return 0, fmt.Errorf("transfer without chip select")
	}
	c.events = append(c.events, event{kind: "tx", b: out})
	c.window = append(c.window, out)
	pos := len(c.window) - 1
	frame := c.window[0]
	if pos == 0 || frame&frameMode == 0 {
		return 0x00, nil
	}
	reg := Register((frame >> 1) & 0x0F)
	w := width(reg)
	if pos > w {
		return 0x00, nil
	}
	if frame&frameRead != 0 {
		return byte(c.regs[reg] >> (8 * (w - pos))), nil
	}
	if pos == w {
		var v uint32
		for _, b := range c.window[1:] {
			v = v<<8 | uint32(b)
		}
		c.regs[reg] = v
	}
	return 0x00, nil
}

// transfers returns the bytes clocked out so far.
func (c *fakeChip) transfers() []byte {
	var out []byte
	for _, e := range c.events {
		if e.kind == "tx" {
			out = append(out, e.b)
		}
	}
	return out
}

func (c *fakeChip) reset() {
	c.events = nil
	c.commands = nil
	c.configs = nil
	c.polls = 0
}

type recordingSleeper struct {
	chip *fakeChip
}

func (s recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.chip.events = append(s.chip.events, event{kind: "sleep", d: d})
	return nil
}

type MockSleeper struct {
	mock.Mock
}

func (m *MockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDevice returns a device attached to a simulated chip in the
// converting state, with calibration waits recorded instead of slept.
func newTestDevice(opts ...Option) (*Device, *fakeChip) {
	chip := newFakeChip()
	base := []Option{WithSleeper(recordingSleeper{chip: chip}), WithLogger(quietLogger())}
	dev := New(chip, chip, append(base, opts...)...)
	dev.state = Converting
	return dev, chip
}
