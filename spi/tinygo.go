package spi

import (
	"context"
	"fmt"

	"github.com/mklimuk/adc"
	"tinygo.org/x/drivers"
)

var _ adc.SPIBus = &TinyGoBus{}
var _ adc.ControlPins = &FuncPins{}

// TinyGoBus adapts a TinyGo machine.SPI (through drivers.SPI) to adc.SPIBus.
// Bus settings are applied by the configure callback, typically wrapping
// machine.SPI.Configure.
type TinyGoBus struct {
	bus       drivers.SPI
	configure func(adc.BusConfig) error
}

func NewTinyGoBus(bus drivers.SPI, configure func(adc.BusConfig) error) *TinyGoBus {
	return &TinyGoBus{bus: bus, configure: configure}
}

func (b *TinyGoBus) Configure(ctx context.Context, cfg adc.BusConfig) error {
	if b.configure == nil {
		return nil
	}
	err := b.configure(cfg)
	if err != nil {
		return fmt.Errorf("could not configure spi bus (%s): %w", cfg, err)
	}
	return nil
}

func (b *TinyGoBus) Transfer(ctx context.Context, out byte) (byte, error) {
	in, err := b.bus.Transfer(out)
	if err != nil {
		return 0, fmt.Errorf("could not transfer %#02x: %w", out, err)
	}
	return in, nil
}

func (b *TinyGoBus) Close() error {
	return nil
}

// FuncPins wraps plain pin functions, e.g. machine.Pin.Set and machine.Pin.Get.
type FuncPins struct {
	// SetCS drives the chip select line to the given level (true = high).
	SetCS func(high bool)
	// ReadReady returns the ready line level (true = high).
	ReadReady      func() bool
	ReadyActiveLow bool
}

func (p *FuncPins) SetChipSelect(ctx context.Context, active bool) error {
	p.SetCS(!active)
	return nil
}

func (p *FuncPins) Ready(ctx context.Context) (bool, error) {
	return p.ReadReady() != p.ReadyActiveLow, nil
}
