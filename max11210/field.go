package max11210

import (
	"context"
	"fmt"
	"math/bits"
)

// Field names a group of bits inside one of the 8-bit registers.
type Field int

const (
	FieldSysGainOverRange Field = iota
	FieldRate
	FieldOverRange
	FieldUnderRange
	FieldMeasStat
	FieldReady
	FieldLineFreq
	FieldInputRange
	FieldClockSource
	FieldRefBuf
	FieldSigBuf
	FieldFormat
	FieldConvMode
	FieldGain
	FieldNoSysGain
	FieldNoSysOffset
	FieldNoSelfCalGain
	FieldNoSelfCalOffset
)

type field struct {
	name string
	reg  Register
	mask byte
}

var fields = map[Field]field{
	FieldSysGainOverRange: {"SYSOR", STAT1, statSysOR},
	FieldRate:             {"RATE", STAT1, statRate},
	FieldOverRange:        {"OR", STAT1, statOR},
	FieldUnderRange:       {"UR", STAT1, statUR},
	FieldMeasStat:         {"MSTAT", STAT1, statMStat},
	FieldReady:            {"RDY", STAT1, statRdy},
	FieldLineFreq:         {"LINEF", CTRL1, ctrlLineF},
	FieldInputRange:       {"U/B", CTRL1, ctrlU},
	FieldClockSource:      {"EXTCLK", CTRL1, ctrlExtClk},
	FieldRefBuf:           {"REFBUF", CTRL1, ctrlRefBuf},
	FieldSigBuf:           {"SIGBUF", CTRL1, ctrlSigBuf},
	FieldFormat:           {"FORMAT", CTRL1, ctrlFormat},
	FieldConvMode:         {"SCYCLE", CTRL1, ctrlSCycle},
	FieldGain:             {"DGAIN", CTRL3, ctrlGain},
	FieldNoSysGain:        {"NOSYSG", CTRL3, ctrlNoSysG},
	FieldNoSysOffset:      {"NOSYSO", CTRL3, ctrlNoSysO},
	FieldNoSelfCalGain:    {"NOSCG", CTRL3, ctrlNoSCG},
	FieldNoSelfCalOffset:  {"NOSCO", CTRL3, ctrlNoSCO},
}

func (f Field) String() string {
	if d, ok := fields[f]; ok {
		return d.name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

func (d field) shift() int {
	return bits.TrailingZeros8(d.mask)
}

// get extracts the field value from a register byte.
func (d field) get(reg byte) byte {
	return (reg & d.mask) >> d.shift()
}

// set packs value into the field bits of reg, leaving every other bit untouched.
func (d field) set(reg byte, value byte) byte {
	return (reg &^ d.mask) | ((value << d.shift()) & d.mask)
}

func boolBit(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// readField reads the field's register and decodes the field. No write side effect.
func (d *Device) readField(ctx context.Context, f Field) (byte, error) {
	desc := fields[f]
	reg, err := d.frames.readByte(ctx, desc.reg)
	if err != nil {
		return 0, fmt.Errorf("max11210: could not read %s: %w", f, err)
	}
	return desc.get(reg), nil
}

// updateField does a read-modify-write of the field's register.
func (d *Device) updateField(ctx context.Context, f Field, value byte) error {
	desc := fields[f]
	old, err := d.frames.readByte(ctx, desc.reg)
	if err != nil {
		return fmt.Errorf("max11210: could not read %s before update: %w", desc.reg, err)
	}
	err = d.frames.writeByte(ctx, desc.reg, desc.set(old, value))
	if err != nil {
		return fmt.Errorf("max11210: could not update %s: %w", f, err)
	}
	d.log.Debug("max11210 field updated", "field", f.String(), "register", desc.reg.String(), "old", old, "new", desc.set(old, value))
	return nil
}
