package main

import (
	"strconv"

	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/mklimuk/adc/max11210"
	"github.com/urfave/cli/v2"
)

var gpioCmd = &cli.Command{
	Name:  "gpio",
	Usage: "general purpose pins of the chip (CTRL2)",
	Subcommands: []*cli.Command{
		gpioReadCmd,
		gpioModeCmd,
		gpioWriteCmd,
	},
}

func pinArg(c *cli.Context, args int) (int, error) {
	if c.NArg() != args {
		return 0, console.Exit(console.CodeUsage, "expected %d argument(s), got %d", args, c.NArg())
	}
	pin, err := strconv.Atoi(c.Args().Get(0))
	if err != nil || pin < 0 || pin >= max11210.GPIOPins {
		return 0, console.Exit(console.CodeUsage, "pin must be 0-%d", max11210.GPIOPins-1)
	}
	return pin, nil
}

var gpioReadCmd = &cli.Command{
	Name:  "read",
	Usage: "print mode and level of every pin",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		ctx := c.Context
		for pin := 0; pin < max11210.GPIOPins; pin++ {
			mode, err := dev.PinModeOf(ctx, pin)
			if err != nil {
				return console.DeviceExit(err, "could not read mode of pin %d", pin)
			}
			level, err := dev.ReadGPIO(ctx, pin)
			if err != nil {
				return console.DeviceExit(err, "could not read pin %d", pin)
			}
			console.PInfof(console.PictoPin, "GPIO%d %-6s %s", pin, mode, console.Flag(level))
		}
		return nil
	}),
}

var gpioModeCmd = &cli.Command{
	Name:      "mode",
	Usage:     "set pin direction",
	ArgsUsage: "<pin> <input|output>",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		pin, err := pinArg(c, 2)
		if err != nil {
			return err
		}
		var mode max11210.PinMode
		err = mode.UnmarshalText([]byte(c.Args().Get(1)))
		if err != nil {
			return console.Exit(console.CodeUsage, "%v", err)
		}
		err = dev.PinMode(c.Context, pin, mode)
		if err != nil {
			return console.DeviceExit(err, "could not set mode of pin %d", pin)
		}
		console.PInfof(console.PictoPin, "GPIO%d is now %s", pin, console.Green(mode))
		return nil
	}),
}

var gpioWriteCmd = &cli.Command{
	Name:      "write",
	Usage:     "drive an output pin",
	ArgsUsage: "<pin> <0|1>",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		pin, err := pinArg(c, 2)
		if err != nil {
			return err
		}
		level, err := strconv.ParseBool(c.Args().Get(1))
		if err != nil {
			return console.Exit(console.CodeUsage, "could not parse level: %v", err)
		}
		err = dev.WriteGPIO(c.Context, pin, level)
		if err != nil {
			return console.DeviceExit(err, "could not write pin %d", pin)
		}
		console.PInfof(console.PictoPin, "GPIO%d set to %s", pin, console.Flag(level))
		return nil
	}),
}
