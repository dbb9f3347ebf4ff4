package adc

import (
	"context"
	"fmt"
	"time"
)

var ErrTimeout = fmt.Errorf("device not responding (ready line timeout)")

type BitOrder byte

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// BusConfig describes the clock polarity/phase, bit order and clock rate a
// device requires from the SPI bus.
type BusConfig struct {
	BitOrder BitOrder
	// Mode is the SPI mode number (0-3), CPOL<<1 | CPHA.
	Mode byte
	// SpeedHz is the highest clock rate the device accepts.
	SpeedHz int64
}

func (c BusConfig) String() string {
	order := "msb"
	if c.BitOrder == LSBFirst {
		order = "lsb"
	}
	return fmt.Sprintf("mode%d/%s/%dHz", c.Mode, order, c.SpeedHz)
}

// SPIBus is a full-duplex serial bus with manually driven chip select.
type SPIBus interface {
	// Configure (re)opens the bus with the given settings.
	Configure(ctx context.Context, cfg BusConfig) error
	// Transfer clocks out one byte and returns the byte clocked in.
	Transfer(ctx context.Context, out byte) (byte, error)
	Close() error
}

// ControlPins are the discrete lines wired between the host and the device.
type ControlPins interface {
	// SetChipSelect asserts (active=true, line low) or releases the chip select line.
	SetChipSelect(ctx context.Context, active bool) error
	// Ready reports whether the ready/interrupt line signals data available.
	Ready(ctx context.Context) (bool, error)
}

type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
