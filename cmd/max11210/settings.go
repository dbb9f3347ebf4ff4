package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/mklimuk/adc/max11210"
	"github.com/urfave/cli/v2"
)

// parseRate accepts a rate code (0-7) or a name such as "60sps".
func parseRate(s string) (max11210.Rate, error) {
	code, err := strconv.ParseUint(s, 0, 3)
	if err == nil {
		return max11210.Rate(code), nil
	}
	var r max11210.Rate
	err = r.UnmarshalText([]byte(s))
	return r, err
}

var rateCmd = &cli.Command{
	Name:      "rate",
	Usage:     "start conversions at the given rate",
	ArgsUsage: "<0-7|1sps|2.5sps|5sps|10sps|15sps|30sps|60sps|120sps>",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		if c.NArg() != 1 {
			return console.Exit(console.CodeUsage, "expected 1 argument, got %d", c.NArg())
		}
		r, err := parseRate(c.Args().Get(0))
		if err != nil {
			return console.Exit(console.CodeUsage, "%v", err)
		}
		err = dev.SetRate(c.Context, r)
		if err != nil {
			return console.DeviceExit(err, "could not set rate")
		}
		console.PInfof(console.PictoChart, "converting at %s", console.Green(r))
		return nil
	}),
}

var gainCmd = &cli.Command{
	Name:      "gain",
	Usage:     "set the digital gain",
	ArgsUsage: "<1|2|4|8|16>",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		if c.NArg() != 1 {
			return console.Exit(console.CodeUsage, "expected 1 argument, got %d", c.NArg())
		}
		factor, err := strconv.Atoi(c.Args().Get(0))
		if err != nil {
			return console.Exit(console.CodeUsage, "could not parse gain: %v", err)
		}
		g, err := max11210.GainFromFactor(factor)
		if err != nil {
			return console.Exit(console.CodeUsage, "%v", err)
		}
		err = dev.SetGain(c.Context, g)
		if err != nil {
			return console.DeviceExit(err, "could not set gain")
		}
		console.PInfof(console.PictoGear, "gain set to %s", console.Green(g))
		return nil
	}),
}

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "control register settings",
	Subcommands: []*cli.Command{
		configGetCmd,
		configSetCmd,
	},
}

var configGetCmd = &cli.Command{
	Name:  "get",
	Usage: "print CTRL1 and CTRL3 settings",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		cfg, err := dev.ReadConfig(c.Context)
		if err != nil {
			return console.DeviceExit(err, "could not read configuration")
		}
		console.PInfof(console.PictoGear, "configuration")
		console.KV("line frequency", console.Cyan(cfg.LineFreq))
		console.KV("input range", console.Cyan(cfg.InputRange))
		console.KV("clock", console.Cyan(cfg.ClockSource))
		console.KV("format", console.Cyan(cfg.Format))
		console.KV("mode", console.Cyan(cfg.ConvMode))
		console.KV("gain", console.Cyan(cfg.Gain))
		console.KV("reference buffer", console.Flag(cfg.RefBuf))
		console.KV("signal buffer", console.Flag(cfg.SigBuf))
		console.KV("no sys gain", console.Flag(cfg.NoSysGain))
		console.KV("no sys offset", console.Flag(cfg.NoSysOffset))
		console.KV("no self-cal gain", console.Flag(cfg.NoSelfCalGain))
		console.KV("no self-cal offset", console.Flag(cfg.NoSelfCalOffset))
		return nil
	}),
}

// textSetting applies a named enum flag when it was given on the command line.
type textSetting struct {
	flag  string
	apply func(c *cli.Context, dev *max11210.Device, text string) error
}

func enumSetting[T any, P interface {
	*T
	UnmarshalText([]byte) error
}](flag string, set func(*max11210.Device, context.Context, T) error) textSetting {
	return textSetting{
		flag: flag,
		apply: func(c *cli.Context, dev *max11210.Device, text string) error {
			var v T
			err := P(&v).UnmarshalText([]byte(text))
			if err != nil {
				return console.Exit(console.CodeUsage, "--%s: %v", flag, err)
			}
			return set(dev, c.Context, v)
		},
	}
}

func boolSetting(flag string, set func(*max11210.Device, context.Context, bool) error) textSetting {
	return textSetting{
		flag: flag,
		apply: func(c *cli.Context, dev *max11210.Device, text string) error {
			v, err := strconv.ParseBool(text)
			if err != nil {
				return console.Exit(console.CodeUsage, "--%s: %v", flag, err)
			}
			return set(dev, c.Context, v)
		},
	}
}

var configSettings = []textSetting{
	enumSetting("line-freq", (*max11210.Device).SetLineFreq),
	enumSetting("range", (*max11210.Device).SetInputRange),
	enumSetting("clock", (*max11210.Device).SetClockSource),
	enumSetting("format", (*max11210.Device).SetFormat),
	enumSetting("mode", (*max11210.Device).SetConvMode),
	boolSetting("ref-buf", (*max11210.Device).SetRefBuf),
	boolSetting("sig-buf", (*max11210.Device).SetSigBuf),
	boolSetting("no-sys-gain", (*max11210.Device).SetDisableSysGain),
	boolSetting("no-sys-offset", (*max11210.Device).SetDisableSysOffset),
	boolSetting("no-self-gain", (*max11210.Device).SetDisableSelfCalGain),
	boolSetting("no-self-offset", (*max11210.Device).SetDisableSelfCalOffset),
}

func configSetFlags() []cli.Flag {
	usage := map[string]string{
		"line-freq": "50hz or 60hz",
		"range":     "unipolar or bipolar",
		"clock":     "internal or external",
		"format":    "twos-complement or offset-binary",
		"mode":      "continuous or single-cycle",
	}
	flags := make([]cli.Flag, 0, len(configSettings))
	for _, s := range configSettings {
		u, ok := usage[s.flag]
		if !ok {
			u = "true or false"
		}
		flags = append(flags, &cli.StringFlag{Name: s.flag, Usage: u})
	}
	return flags
}

var configSetCmd = &cli.Command{
	Name:  "set",
	Usage: "change CTRL1 and CTRL3 settings; only given flags are written",
	Flags: configSetFlags(),
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		applied := 0
		for _, s := range configSettings {
			if !c.IsSet(s.flag) {
				continue
			}
			err := s.apply(c, dev, c.String(s.flag))
			if err != nil {
				var exerr cli.ExitCoder
				if errors.As(err, &exerr) {
					return err
				}
				return console.DeviceExit(err, "could not apply --%s", s.flag)
			}
			applied++
		}
		if applied == 0 {
			return console.Exit(console.CodeUsage, "nothing to set")
		}
		console.PInfof(console.PictoFinish, "%d setting(s) written", applied)
		return nil
	}),
}
