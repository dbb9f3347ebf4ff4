package spi

import (
	"context"
	"fmt"

	"github.com/mklimuk/adc"
)

var _ adc.ControlPins = &GobotPins{}

// DigitalPinner is the digital I/O part of a gobot platform adaptor
// (nanopi, raspi, ...).
type DigitalPinner interface {
	DigitalRead(pin string) (int, error)
	DigitalWrite(pin string, val byte) error
}

// GobotPins drives chip select and reads the ready line through a gobot adaptor.
// Pins are named the way the adaptor names them (e.g. "24" for header pin 24).
type GobotPins struct {
	adaptor        DigitalPinner
	cs             string
	ready          string
	readyActiveLow bool
}

func NewGobotPins(adaptor DigitalPinner, csPin, readyPin string, readyActiveLow bool) *GobotPins {
	return &GobotPins{adaptor: adaptor, cs: csPin, ready: readyPin, readyActiveLow: readyActiveLow}
}

func (p *GobotPins) SetChipSelect(ctx context.Context, active bool) error {
	level := byte(1)
	if active {
		level = 0
	}
	err := p.adaptor.DigitalWrite(p.cs, level)
	if err != nil {
		return fmt.Errorf("could not drive chip select pin %s: %w", p.cs, err)
	}
	return nil
}

func (p *GobotPins) Ready(ctx context.Context) (bool, error) {
	val, err := p.adaptor.DigitalRead(p.ready)
	if err != nil {
		return false, fmt.Errorf("could not read ready pin %s: %w", p.ready, err)
	}
	return (val != 0) != p.readyActiveLow, nil
}
