package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/mklimuk/adc/max11210"
	"github.com/urfave/cli/v2"
)

func calibrationAction(name, hint string, run func(*max11210.Device, context.Context) error) cli.ActionFunc {
	return withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		if hint != "" {
			console.Warnf("%s", hint)
		}
		err := withSpinner(c.Context, name+" calibration", func(ctx context.Context) error {
			return run(dev, ctx)
		})
		if err != nil {
			return console.DeviceExit(err, "%s calibration failed", name)
		}
		console.PInfof(console.PictoTarget, "%s calibration done", name)
		return nil
	})
}

var calibrateCmd = &cli.Command{
	Name:  "calibrate",
	Usage: "run a calibration cycle",
	Subcommands: []*cli.Command{
		{
			Name:   "self",
			Usage:  "internal zero-scale and full-scale self-calibration",
			Action: calibrationAction("self", "", (*max11210.Device).SelfCal),
		},
		{
			Name:   "offset",
			Usage:  "system zero-scale calibration",
			Action: calibrationAction("system offset", "inputs must be at the zero-scale level", (*max11210.Device).SysOffsetCal),
		},
		{
			Name:   "gain",
			Usage:  "system full-scale calibration",
			Action: calibrationAction("system gain", "inputs must be at the full-scale level", (*max11210.Device).SysGainCal),
		},
	},
}

func calibrationRegister(c *cli.Context) (max11210.Register, error) {
	if c.NArg() < 1 {
		return 0, console.Exit(console.CodeUsage, "expected register name (SOC, SGC, SCOC or SCGC)")
	}
	r, err := max11210.ParseRegister(strings.ToUpper(c.Args().Get(0)))
	if err != nil {
		return 0, console.Exit(console.CodeUsage, "%v", err)
	}
	return r, nil
}

// parseCalValue accepts decimal, 0x-prefixed hex or 0b-prefixed binary.
func parseCalValue(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 24)
	if err != nil {
		return 0, fmt.Errorf("invalid 24-bit value %q: %w", s, err)
	}
	return uint32(v), nil
}

var calCmd = &cli.Command{
	Name:  "cal",
	Usage: "calibration register access",
	Subcommands: []*cli.Command{
		{
			Name:      "get",
			Usage:     "print a calibration register",
			ArgsUsage: "<SOC|SGC|SCOC|SCGC>",
			Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
				r, err := calibrationRegister(c)
				if err != nil {
					return err
				}
				v, err := dev.ReadCalibration(c.Context, r)
				if err != nil {
					return console.DeviceExit(err, "could not read %s", r)
				}
				console.Printf("%s: %s\n", r, console.White(hexWord(v)))
				return nil
			}),
		},
		{
			Name:      "set",
			Usage:     "overwrite a calibration register",
			ArgsUsage: "<SOC|SGC|SCOC|SCGC> <value>",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "do not ask for confirmation",
				},
			},
			Before: func(c *cli.Context) error {
				c.Context = console.SetAssumeYes(c.Context, c.Bool("yes"))
				return nil
			},
			Action: withDevice(false, setCalibration),
		},
	},
}

func setCalibration(c *cli.Context, dev *max11210.Device) error {
	r, err := calibrationRegister(c)
	if err != nil {
		return err
	}
	if c.NArg() != 2 {
		return console.Exit(console.CodeUsage, "expected 2 arguments, got %d", c.NArg())
	}
	v, err := parseCalValue(c.Args().Get(1))
	if err != nil {
		return console.Exit(console.CodeUsage, "%v", err)
	}
	ctx := c.Context
	old, err := dev.ReadCalibration(ctx, r)
	if err != nil {
		return console.DeviceExit(err, "could not read %s", r)
	}
	if !console.AssumeYes(ctx) {
		ok, err := console.Confirm(fmt.Sprintf("overwrite %s %s with %s?", r, hexWord(old), hexWord(v)))
		if err != nil {
			return console.Exit(console.CodeUsage, "could not read answer: %v", err)
		}
		if !ok {
			console.PInfof(console.PictoStop, "%s left unchanged", r)
			return nil
		}
	}
	err = dev.WriteCalibration(ctx, r, v)
	if err != nil {
		return console.DeviceExit(err, "could not write %s", r)
	}
	console.PInfof(console.PictoFinish, "%s set to %s", r, console.Green(hexWord(v)))
	return nil
}
