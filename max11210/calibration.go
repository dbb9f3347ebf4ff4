package max11210

import (
	"context"
	"fmt"
)

const mask24 = 0xFFFFFF

func (d *Device) readWide(ctx context.Context, r Register) (uint32, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	v, err := d.frames.readTriple(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("max11210: could not read %s: %w", r, err)
	}
	return v, nil
}

func (d *Device) writeWide(ctx context.Context, r Register, v uint32) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	err := d.frames.writeTriple(ctx, r, v&mask24)
	if err != nil {
		return fmt.Errorf("max11210: could not write %s: %w", r, err)
	}
	return nil
}

// ReadCalibration returns one of the calibration registers (SOC, SGC, SCOC,
// SCGC) verbatim.
func (d *Device) ReadCalibration(ctx context.Context, r Register) (uint32, error) {
	if r < SOC || r > SCGC {
		return 0, fmt.Errorf("%w: %s is not a calibration register", ErrInvalidValue, r)
	}
	return d.readWide(ctx, r)
}

// WriteCalibration overwrites a calibration register. Only the low 24 bits of v are sent.
func (d *Device) WriteCalibration(ctx context.Context, r Register, v uint32) error {
	if r < SOC || r > SCGC {
		return fmt.Errorf("%w: %s is not a calibration register", ErrInvalidValue, r)
	}
	return d.writeWide(ctx, r, v)
}

func (d *Device) SysGainCalValue(ctx context.Context) (uint32, error) {
	return d.readWide(ctx, SGC)
}

func (d *Device) SetSysGainCalValue(ctx context.Context, v uint32) error {
	return d.writeWide(ctx, SGC, v)
}

func (d *Device) SysOffsetCalValue(ctx context.Context) (uint32, error) {
	return d.readWide(ctx, SOC)
}

func (d *Device) SetSysOffsetCalValue(ctx context.Context, v uint32) error {
	return d.writeWide(ctx, SOC, v)
}

func (d *Device) SelfCalGainValue(ctx context.Context) (uint32, error) {
	return d.readWide(ctx, SCGC)
}

func (d *Device) SetSelfCalGainValue(ctx context.Context, v uint32) error {
	return d.writeWide(ctx, SCGC, v)
}

func (d *Device) SelfCalOffsetValue(ctx context.Context) (uint32, error) {
	return d.readWide(ctx, SCOC)
}

func (d *Device) SetSelfCalOffsetValue(ctx context.Context, v uint32) error {
	return d.writeWide(ctx, SCOC, v)
}

// Registers is a snapshot of the whole register map.
type Registers struct {
	STAT1 byte   `yaml:"stat1"`
	CTRL1 byte   `yaml:"ctrl1"`
	CTRL2 byte   `yaml:"ctrl2"`
	CTRL3 byte   `yaml:"ctrl3"`
	DATA  uint32 `yaml:"data"`
	SOC   uint32 `yaml:"soc"`
	SGC   uint32 `yaml:"sgc"`
	SCOC  uint32 `yaml:"scoc"`
	SCGC  uint32 `yaml:"scgc"`
}

// ReadRegisters reads every register once, in address order.
func (d *Device) ReadRegisters(ctx context.Context) (Registers, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	var regs Registers
	narrow := []*byte{&regs.STAT1, &regs.CTRL1, &regs.CTRL2, &regs.CTRL3}
	for i, dst := range narrow {
		v, err := d.frames.readByte(ctx, Register(i))
		if err != nil {
			return regs, fmt.Errorf("max11210: could not read %s: %w", Register(i), err)
		}
		*dst = v
	}
	wide := []*uint32{&regs.DATA, &regs.SOC, &regs.SGC, &regs.SCOC, &regs.SCGC}
	for i, dst := range wide {
		r := DATA + Register(i)
		v, err := d.frames.readTriple(ctx, r)
		if err != nil {
			return regs, fmt.Errorf("max11210: could not read %s: %w", r, err)
		}
		*dst = v
	}
	return regs, nil
}
