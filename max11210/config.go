package max11210

import (
	"context"
	"fmt"
)

// Config is the decoded content of CTRL1 and CTRL3.
type Config struct {
	LineFreq        LineFreq    `yaml:"line_freq"`
	InputRange      InputRange  `yaml:"input_range"`
	ClockSource     ClockSource `yaml:"clock_source"`
	RefBuf          bool        `yaml:"ref_buf"`
	SigBuf          bool        `yaml:"sig_buf"`
	Format          Format      `yaml:"format"`
	ConvMode        ConvMode    `yaml:"conv_mode"`
	Gain            Gain        `yaml:"gain"`
	NoSysGain       bool        `yaml:"no_sys_gain"`
	NoSysOffset     bool        `yaml:"no_sys_offset"`
	NoSelfCalGain   bool        `yaml:"no_self_cal_gain"`
	NoSelfCalOffset bool        `yaml:"no_self_cal_offset"`
}

func (d *Device) set(ctx context.Context, f Field, value byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.updateField(ctx, f, value)
}

func (d *Device) get(ctx context.Context, f Field) (byte, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.readField(ctx, f)
}

// setTwoState rejects values outside the field's two states without touching the bus.
func (d *Device) setTwoState(ctx context.Context, f Field, value byte) error {
	if value > 1 {
		return fmt.Errorf("%w: %d for %s", ErrInvalidValue, value, f)
	}
	return d.set(ctx, f, value)
}

func (d *Device) flag(ctx context.Context, f Field) (bool, error) {
	v, err := d.get(ctx, f)
	return v == 1, err
}

// SetLineFreq selects 50 Hz (LINEF=1) or 60 Hz (LINEF=0) rejection.
func (d *Device) SetLineFreq(ctx context.Context, v LineFreq) error {
	return d.setTwoState(ctx, FieldLineFreq, byte(v))
}

func (d *Device) LineFreq(ctx context.Context) (LineFreq, error) {
	v, err := d.get(ctx, FieldLineFreq)
	return LineFreq(v), err
}

func (d *Device) SetInputRange(ctx context.Context, v InputRange) error {
	return d.setTwoState(ctx, FieldInputRange, byte(v))
}

func (d *Device) InputRange(ctx context.Context) (InputRange, error) {
	v, err := d.get(ctx, FieldInputRange)
	return InputRange(v), err
}

func (d *Device) SetClockSource(ctx context.Context, v ClockSource) error {
	return d.setTwoState(ctx, FieldClockSource, byte(v))
}

func (d *Device) ClockSource(ctx context.Context) (ClockSource, error) {
	v, err := d.get(ctx, FieldClockSource)
	return ClockSource(v), err
}

func (d *Device) SetRefBuf(ctx context.Context, enable bool) error {
	return d.set(ctx, FieldRefBuf, boolBit(enable))
}

func (d *Device) RefBuf(ctx context.Context) (bool, error) {
	return d.flag(ctx, FieldRefBuf)
}

func (d *Device) SetSigBuf(ctx context.Context, enable bool) error {
	return d.set(ctx, FieldSigBuf, boolBit(enable))
}

func (d *Device) SigBuf(ctx context.Context) (bool, error) {
	return d.flag(ctx, FieldSigBuf)
}

func (d *Device) SetFormat(ctx context.Context, v Format) error {
	return d.setTwoState(ctx, FieldFormat, byte(v))
}

func (d *Device) Format(ctx context.Context) (Format, error) {
	v, err := d.get(ctx, FieldFormat)
	return Format(v), err
}

// SetConvMode selects single-cycle or continuous conversion. The mode is
// only kept in CTRL1; ConvMode reads it back from there.
func (d *Device) SetConvMode(ctx context.Context, v ConvMode) error {
	return d.setTwoState(ctx, FieldConvMode, byte(v))
}

func (d *Device) ConvMode(ctx context.Context) (ConvMode, error) {
	v, err := d.get(ctx, FieldConvMode)
	return ConvMode(v), err
}

// SetGain sets the digital gain. Codes above Gain16 are clamped to Gain16.
func (d *Device) SetGain(ctx context.Context, g Gain) error {
	if g > maxGain {
		g = maxGain
	}
	return d.set(ctx, FieldGain, byte(g))
}

func (d *Device) Gain(ctx context.Context) (Gain, error) {
	v, err := d.get(ctx, FieldGain)
	return Gain(v), err
}

func (d *Device) SetDisableSysGain(ctx context.Context, disable bool) error {
	return d.set(ctx, FieldNoSysGain, boolBit(disable))
}

func (d *Device) DisableSysGain(ctx context.Context) (bool, error) {
	return d.flag(ctx, FieldNoSysGain)
}

func (d *Device) SetDisableSysOffset(ctx context.Context, disable bool) error {
	return d.set(ctx, FieldNoSysOffset, boolBit(disable))
}

func (d *Device) DisableSysOffset(ctx context.Context) (bool, error) {
	return d.flag(ctx, FieldNoSysOffset)
}

func (d *Device) SetDisableSelfCalGain(ctx context.Context, disable bool) error {
	return d.set(ctx, FieldNoSelfCalGain, boolBit(disable))
}

func (d *Device) DisableSelfCalGain(ctx context.Context) (bool, error) {
	return d.flag(ctx, FieldNoSelfCalGain)
}

func (d *Device) SetDisableSelfCalOffset(ctx context.Context, disable bool) error {
	return d.set(ctx, FieldNoSelfCalOffset, boolBit(disable))
}

func (d *Device) DisableSelfCalOffset(ctx context.Context) (bool, error) {
	return d.flag(ctx, FieldNoSelfCalOffset)
}

// ReadConfig decodes CTRL1 and CTRL3 with one read each.
func (d *Device) ReadConfig(ctx context.Context) (Config, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	ctrl1, err := d.frames.readByte(ctx, CTRL1)
	if err != nil {
		return Config{}, fmt.Errorf("max11210: could not read CTRL1: %w", err)
	}
	ctrl3, err := d.frames.readByte(ctx, CTRL3)
	if err != nil {
		return Config{}, fmt.Errorf("max11210: could not read CTRL3: %w", err)
	}
	return Config{
		LineFreq:        LineFreq(fields[FieldLineFreq].get(ctrl1)),
		InputRange:      InputRange(fields[FieldInputRange].get(ctrl1)),
		ClockSource:     ClockSource(fields[FieldClockSource].get(ctrl1)),
		RefBuf:          fields[FieldRefBuf].get(ctrl1) == 1,
		SigBuf:          fields[FieldSigBuf].get(ctrl1) == 1,
		Format:          Format(fields[FieldFormat].get(ctrl1)),
		ConvMode:        ConvMode(fields[FieldConvMode].get(ctrl1)),
		Gain:            Gain(fields[FieldGain].get(ctrl3)),
		NoSysGain:       fields[FieldNoSysGain].get(ctrl3) == 1,
		NoSysOffset:     fields[FieldNoSysOffset].get(ctrl3) == 1,
		NoSelfCalGain:   fields[FieldNoSelfCalGain].get(ctrl3) == 1,
		NoSelfCalOffset: fields[FieldNoSelfCalOffset].get(ctrl3) == 1,
	}, nil
}
