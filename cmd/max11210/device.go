package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mklimuk/adc"
	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/mklimuk/adc/max11210"
	"github.com/mklimuk/adc/spi"
	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

type session struct {
	dev      *max11210.Device
	finalize func() error
}

func openPins(cfg Config) (adc.ControlPins, func() error, error) {
	switch cfg.Platform {
	case platformNanoPi:
		npi := nanopi.NewNeoAdaptor()
		err := npi.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		return spi.NewGobotPins(npi, cfg.CSPin, cfg.ReadyPin, cfg.ReadyActiveLow), npi.Finalize, nil
	default:
		pins, err := spi.NewPeriphPins(cfg.CSPin, cfg.ReadyPin, cfg.ReadyActiveLow)
		if err != nil {
			return nil, nil, err
		}
		return pins, func() error { return nil }, nil
	}
}

// openDevice wires the configured transport. With begin set the chip is
// reset to defaults and self-calibrated, otherwise the running chip is only attached.
func openDevice(c *cli.Context, begin bool) (*session, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, console.Exit(console.CodeUsage, "invalid configuration: %v", err)
	}
	bus, err := spi.NewPeriphBus(cfg.Port)
	if err != nil {
		return nil, console.DeviceExit(err, "could not open spi port")
	}
	pins, finalize, err := openPins(cfg)
	if err != nil {
		release(slog.Default(), bus.Close)
		return nil, console.DeviceExit(err, "could not open control pins")
	}
	dev := max11210.New(bus, pins,
		max11210.WithSpeed(cfg.SpeedHz),
		max11210.WithReadyTimeout(cfg.ReadyTimeout),
		max11210.WithLogger(slog.Default()),
	)
	s := &session{dev: dev, finalize: finalize}
	if begin {
		err = withSpinner(c.Context, "resetting and self-calibrating", dev.Begin)
	} else {
		err = dev.Attach(c.Context)
	}
	if err != nil {
		release(slog.Default(), bus.Close, finalize)
		return nil, console.DeviceExit(err, "could not start device")
	}
	slog.Debug("device ready", "platform", cfg.Platform, "port", cfg.Port, "state", dev.State())
	return s, nil
}

// release runs every closer and logs what failed.
func release(log *slog.Logger, closers ...func() error) {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c())
	}
	err := errors.Join(errs...)
	if err != nil {
		log.Warn("could not release device", "error", err)
	}
}

// close releases the host side; the chip keeps its state and keeps converting.
func (s *session) close() {
	release(slog.Default(), s.dev.Close, s.finalize)
}

// withDevice runs fn against an opened device and always releases it.
func withDevice(begin bool, fn func(c *cli.Context, dev *max11210.Device) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openDevice(c, begin)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(c, s.dev)
	}
}
