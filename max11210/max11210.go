// Package max11210 drives the Maxim MAX11210 24-bit delta-sigma ADC over SPI.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/MAX11210.pdf
//
// The chip is addressed with single-byte frames: command frames (calibration,
// conversion rate, power down) and register frames (read/write of the status,
// control, data and calibration registers). Control registers pack several
// independent settings; every setter does a read-modify-write so that only
// the requested bits change. Nothing is cached on the host side: each getter
// performs a fresh bus read.
//
// Typical usage:
//
//	dev := max11210.New(bus, pins)
//	if err := dev.Begin(ctx); err != nil { ... }
//	defer dev.End(ctx)
//	sample, err := dev.Read(ctx)
//
// A Device serializes its own operations, but the bus and the chip select
// line must not be shared with other devices while an operation is running.
package max11210

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/adc"
)

var ErrNotStarted = fmt.Errorf("max11210: device not started")
var ErrInvalidValue = fmt.Errorf("max11210: invalid value")

// MaxSpeedHz is the fastest serial clock the chip accepts.
const MaxSpeedHz = 5_000_000

const (
	selfCalTime = 220 * time.Millisecond // self-calibration takes 200 ms
	sysCalTime  = 120 * time.Millisecond // zero-scale/full-scale calibration takes 100 ms
)

type Opts struct {
	// ReadyTimeout bounds the wait for a conversion. Zero waits until the context is done.
	ReadyTimeout time.Duration
	PollInterval time.Duration
	SpeedHz      int64
	DefaultRate  Rate
	Sleeper      adc.Sleeper
	Logger       *slog.Logger
}

type Option func(*Opts)

func WithReadyTimeout(timeout time.Duration) Option {
	return func(o *Opts) {
		o.ReadyTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(o *Opts) {
		o.PollInterval = interval
	}
}

// WithSpeed sets the bus clock. Values above MaxSpeedHz are capped.
func WithSpeed(hz int64) Option {
	return func(o *Opts) {
		o.SpeedHz = hz
	}
}

func WithDefaultRate(rate Rate) Option {
	return func(o *Opts) {
		o.DefaultRate = rate
	}
}

func WithSleeper(s adc.Sleeper) Option {
	return func(o *Opts) {
		o.Sleeper = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Opts) {
		o.Logger = l
	}
}

// Device represents a single MAX11210 on a dedicated chip select line.
type Device struct {
	mx     sync.Mutex
	frames *framer
	bus    adc.SPIBus
	config Opts
	log    *slog.Logger
	state  State
}

func New(bus adc.SPIBus, pins adc.ControlPins, opts ...Option) *Device {
	config := Opts{
		ReadyTimeout: 2 * time.Second,
		PollInterval: time.Microsecond,
		SpeedHz:      4_500_000,
		DefaultRate:  Rate10,
		Sleeper:      timerSleeper{},
		Logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.SpeedHz <= 0 || config.SpeedHz > MaxSpeedHz {
		config.SpeedHz = MaxSpeedHz
	}
	return &Device{
		frames: &framer{bus: bus, pins: pins},
		bus:    bus,
		config: config,
		log:    config.Logger,
	}
}

func (d *Device) busConfig() adc.BusConfig {
	return adc.BusConfig{BitOrder: adc.MSBFirst, Mode: 0, SpeedHz: d.config.SpeedHz}
}

// Begin configures the bus, writes the default control register contents,
// runs a self-calibration and starts conversions at the default rate.
func (d *Device) Begin(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.state = Uninitialized
	err := d.bus.Configure(ctx, d.busConfig())
	if err != nil {
		return fmt.Errorf("max11210: could not configure bus: %w", err)
	}
	d.state = Configuring
	d.log.Debug("max11210 bus configured", "bus", d.busConfig().String())
	defaults := []struct {
		reg  Register
		data byte
	}{
		{CTRL1, defaultCTRL1},
		{CTRL2, defaultCTRL2},
		{CTRL3, defaultCTRL3},
	}
	for _, def := range defaults {
		err = d.frames.writeByte(ctx, def.reg, def.data)
		if err != nil {
			return fmt.Errorf("max11210: could not write default %s: %w", def.reg, err)
		}
	}
	err = d.calibrate(ctx, calSelf)
	if err != nil {
		return err
	}
	return d.setRate(ctx, d.config.DefaultRate)
}

// Attach configures the bus for a chip that is already running, without
// touching its configuration or calibration.
func (d *Device) Attach(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	err := d.bus.Configure(ctx, d.busConfig())
	if err != nil {
		return fmt.Errorf("max11210: could not configure bus: %w", err)
	}
	d.state = Converting
	return nil
}

// End powers the chip down and releases the bus.
func (d *Device) End(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	err := d.frames.sendCommand(ctx, cmdImpd)
	if err != nil {
		return fmt.Errorf("max11210: could not send power down: %w", err)
	}
	d.state = PoweredDown
	err = d.bus.Close()
	if err != nil {
		return fmt.Errorf("max11210: could not close bus: %w", err)
	}
	d.log.Debug("max11210 powered down")
	return nil
}

// Close releases the bus and leaves the chip running. It pairs with Attach.
func (d *Device) Close() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.state = Uninitialized
	err := d.bus.Close()
	if err != nil {
		return fmt.Errorf("max11210: could not close bus: %w", err)
	}
	return nil
}

func (d *Device) State() State {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.state
}

// Read waits for the ready line and returns the conversion result sign
// extended from 24 bits. The result is meaningful for the two's complement
// format; use ReadRaw and DecodeSample for offset binary.
func (d *Device) Read(ctx context.Context) (int32, error) {
	raw, err := d.ReadRaw(ctx)
	if err != nil {
		return 0, err
	}
	return signExtend24(raw), nil
}

// ReadRaw waits for the ready line and returns the DATA register verbatim.
func (d *Device) ReadRaw(ctx context.Context) (uint32, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	if d.state != Converting && d.state != Calibrated {
		return 0, ErrNotStarted
	}
	return d.readConversion(ctx)
}

// DecodeSample converts a raw DATA code to a signed sample for the given format.
func DecodeSample(raw uint32, format Format) int32 {
	if format == OffsetBinary {
		return int32(raw&0xFFFFFF) - 0x800000
	}
	return signExtend24(raw)
}

// SetRate issues a conversion command with the given rate code. The new
// rate applies from the next conversion cycle.
func (d *Device) SetRate(ctx context.Context, rate Rate) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.setRate(ctx, rate)
}

func (d *Device) setRate(ctx context.Context, rate Rate) error {
	err := d.frames.sendCommand(ctx, byte(rate)&0x07)
	if err != nil {
		return fmt.Errorf("max11210: could not set rate %s: %w", rate, err)
	}
	if d.state == Calibrated {
		d.state = Converting
	}
	return nil
}
