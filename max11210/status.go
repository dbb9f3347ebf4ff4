package max11210

import (
	"context"
	"fmt"
)

// Status is the decoded content of STAT1.
type Status struct {
	SysGainOverRange bool `yaml:"sys_gain_over_range"`
	Rate             Rate `yaml:"rate"`
	OverRange        bool `yaml:"over_range"`
	UnderRange       bool `yaml:"under_range"`
	Measuring        bool `yaml:"measuring"`
	Ready            bool `yaml:"ready"`
}

func decodeStatus(stat byte) Status {
	return Status{
		SysGainOverRange: fields[FieldSysGainOverRange].get(stat) == 1,
		Rate:             Rate(fields[FieldRate].get(stat)),
		OverRange:        fields[FieldOverRange].get(stat) == 1,
		UnderRange:       fields[FieldUnderRange].get(stat) == 1,
		Measuring:        fields[FieldMeasStat].get(stat) == 1,
		Ready:            fields[FieldReady].get(stat) == 1,
	}
}

// ReadStatus decodes all STAT1 flags from a single read.
func (d *Device) ReadStatus(ctx context.Context) (Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	stat, err := d.frames.readByte(ctx, STAT1)
	if err != nil {
		return Status{}, fmt.Errorf("max11210: could not read status: %w", err)
	}
	return decodeStatus(stat), nil
}

func (d *Device) statusFlag(ctx context.Context, f Field) (bool, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	v, err := d.readField(ctx, f)
	return v == 1, err
}

// SysGainOverRange reports a system gain calibration over range.
func (d *Device) SysGainOverRange(ctx context.Context) (bool, error) {
	return d.statusFlag(ctx, FieldSysGainOverRange)
}

// Rate returns the conversion rate the chip reports in STAT1.
func (d *Device) Rate(ctx context.Context) (Rate, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	v, err := d.readField(ctx, FieldRate)
	return Rate(v), err
}

func (d *Device) OverRange(ctx context.Context) (bool, error) {
	return d.statusFlag(ctx, FieldOverRange)
}

func (d *Device) UnderRange(ctx context.Context) (bool, error) {
	return d.statusFlag(ctx, FieldUnderRange)
}

// MeasStat reports whether a conversion is in progress.
func (d *Device) MeasStat(ctx context.Context) (bool, error) {
	return d.statusFlag(ctx, FieldMeasStat)
}

// Ready reports the RDY flag of STAT1; it does not wait.
func (d *Device) Ready(ctx context.Context) (bool, error) {
	return d.statusFlag(ctx, FieldReady)
}
