package spi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/adc"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var _ adc.SPIBus = &PeriphBus{}
var _ adc.ControlPins = &PeriphPins{}

// InitHost loads the periph host drivers. It is safe to call more than once.
func InitHost() error {
	state, err := host.Init()
	if err != nil {
		return fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	return nil
}

// PeriphBus is an SPI port opened without kernel chip select; the chip
// select line is driven separately through ControlPins.
type PeriphBus struct {
	port string
	bus  spi.PortCloser
	conn spi.Conn
}

// NewPeriphBus prepares the named port (e.g. "/dev/spidev0.0" or "SPI0.0").
// The port is opened by Configure.
func NewPeriphBus(port string) (*PeriphBus, error) {
	err := InitHost()
	if err != nil {
		return nil, err
	}
	return &PeriphBus{port: port}, nil
}

func periphMode(cfg adc.BusConfig) spi.Mode {
	mode := spi.Mode(cfg.Mode&0x03) | spi.NoCS
	if cfg.BitOrder == adc.LSBFirst {
		mode |= spi.LSBFirst
	}
	return mode
}

func (b *PeriphBus) Configure(ctx context.Context, cfg adc.BusConfig) error {
	if b.bus != nil {
		_ = b.Close()
	}
	bus, err := spireg.Open(b.port)
	if err != nil {
		return fmt.Errorf("could not open spi port %s: %w", b.port, err)
	}
	conn, err := bus.Connect(physic.Frequency(cfg.SpeedHz)*physic.Hertz, periphMode(cfg), 8)
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("could not connect to spi port %s (%s): %w", b.port, cfg, err)
	}
	b.bus = bus
	b.conn = conn
	return nil
}

func (b *PeriphBus) Transfer(ctx context.Context, out byte) (byte, error) {
	if b.conn == nil {
		return 0, fmt.Errorf("spi port %s not configured", b.port)
	}
	rx := make([]byte, 1)
	err := b.conn.Tx([]byte{out}, rx)
	if err != nil {
		return 0, fmt.Errorf("could not transfer %#02x on spi port %s: %w", out, b.port, err)
	}
	return rx[0], nil
}

func (b *PeriphBus) Close() error {
	if b.bus == nil {
		return nil
	}
	err := b.bus.Close()
	b.bus = nil
	b.conn = nil
	return err
}

// PeriphPins drives chip select and samples the ready line through periph GPIO.
type PeriphPins struct {
	cs             gpio.PinOut
	ready          gpio.PinIn
	readyActiveLow bool
}

// NewPeriphPins looks the pins up by name (e.g. "GPIO8", "GPIO25").
func NewPeriphPins(csPin, readyPin string, readyActiveLow bool) (*PeriphPins, error) {
	err := InitHost()
	if err != nil {
		return nil, err
	}
	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("could not find chip select pin %s", csPin)
	}
	ready := gpioreg.ByName(readyPin)
	if ready == nil {
		return nil, fmt.Errorf("could not find ready pin %s", readyPin)
	}
	return NewPeriphPinsFrom(cs, ready, readyActiveLow)
}

// NewPeriphPinsFrom configures already resolved pins: chip select released, ready as input.
func NewPeriphPinsFrom(cs gpio.PinOut, ready gpio.PinIn, readyActiveLow bool) (*PeriphPins, error) {
	err := cs.Out(gpio.High)
	if err != nil {
		return nil, fmt.Errorf("could not release chip select: %w", err)
	}
	err = ready.In(gpio.PullNoChange, gpio.NoEdge)
	if err != nil {
		return nil, fmt.Errorf("could not set ready pin as input: %w", err)
	}
	return &PeriphPins{cs: cs, ready: ready, readyActiveLow: readyActiveLow}, nil
}

func (p *PeriphPins) SetChipSelect(ctx context.Context, active bool) error {
	// chip select is active low
	err := p.cs.Out(gpio.Level(!active))
	if err != nil {
		return fmt.Errorf("could not drive chip select: %w", err)
	}
	return nil
}

func (p *PeriphPins) Ready(ctx context.Context) (bool, error) {
	level := bool(p.ready.Read())
	return level != p.readyActiveLow, nil
}
