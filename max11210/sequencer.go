package max11210

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/mklimuk/adc"
)

// State tracks where the device is in its begin/calibrate/convert sequence.
type State int

const (
	Uninitialized State = iota
	Configuring
	Calibrated
	Converting
	PoweredDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Configuring:
		return "configuring"
	case Calibrated:
		return "calibrated"
	case Converting:
		return "converting"
	case PoweredDown:
		return "powered down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type calibration struct {
	name   string
	opcode byte
	settle time.Duration
}

var (
	calSelf      = calibration{"self", cmdCal0, selfCalTime}
	calSysOffset = calibration{"system offset", cmdCal1, sysCalTime}
	calSysGain   = calibration{"system gain", cmdCal0 | cmdCal1, sysCalTime}
)

var errNotReady = errors.New("conversion not ready")

// calibrate issues the calibration command and waits out the settle time.
// The chip gives no ready indication while calibrating.
func (d *Device) calibrate(ctx context.Context, cal calibration) error {
	d.log.Debug("max11210 calibration started", "type", cal.name, "settle", cal.settle)
	err := d.frames.sendCommand(ctx, cal.opcode)
	if err != nil {
		return fmt.Errorf("max11210: could not start %s calibration: %w", cal.name, err)
	}
	err = d.config.Sleeper.Sleep(ctx, cal.settle)
	if err != nil {
		return fmt.Errorf("max11210: %s calibration interrupted: %w", cal.name, err)
	}
	if d.state != Uninitialized && d.state != PoweredDown {
		d.state = Calibrated
	}
	return nil
}

// readConversion asserts chip select, polls the ready line and reads DATA.
func (d *Device) readConversion(ctx context.Context) (uint32, error) {
	err := d.frames.pins.SetChipSelect(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("max11210: could not assert chip select: %w", err)
	}
	err = d.waitReady(ctx)
	if err != nil {
		return 0, d.frames.release(ctx, err)
	}
	raw, err := d.frames.readTriple(ctx, DATA)
	if err != nil {
		return 0, fmt.Errorf("max11210: could not read conversion: %w", err)
	}
	return raw, nil
}

func (d *Device) waitReady(ctx context.Context) error {
	pollCtx := ctx
	if d.config.ReadyTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, d.config.ReadyTimeout)
		defer cancel()
	}
	polls := 0
	var lineErr error
	op := func() error {
		polls++
		ready, err := d.frames.pins.Ready(pollCtx)
		if err != nil {
			lineErr = fmt.Errorf("max11210: could not read ready line: %w", err)
			return backoff.Permanent(lineErr)
		}
		if !ready {
			return errNotReady
		}
		return nil
	}
	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(d.config.PollInterval), pollCtx))
	switch {
	case err == nil:
		return nil
	case lineErr != nil:
		return lineErr
	case ctx.Err() != nil:
		return fmt.Errorf("max11210: conversion wait cancelled after %d polls: %w", polls, ctx.Err())
	}
	return fmt.Errorf("max11210: no conversion after %s (%d polls): %w", d.config.ReadyTimeout, polls, adc.ErrTimeout)
}

// SelfCal runs the internal zero-scale and full-scale calibration (~200 ms).
func (d *Device) SelfCal(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.calibrate(ctx, calSelf)
}

// SysOffsetCal runs a system zero-scale calibration (~100 ms). The input must
// be at zero scale.
func (d *Device) SysOffsetCal(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.calibrate(ctx, calSysOffset)
}

// SysGainCal runs a system full-scale calibration (~100 ms). The input must
// be at full scale.
func (d *Device) SysGainCal(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.calibrate(ctx, calSysGain)
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, dur time.Duration) error {
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
