package main

import (
	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/mklimuk/adc/max11210"
	"github.com/urfave/cli/v2"
)

var beginCmd = &cli.Command{
	Name:  "begin",
	Usage: "reset the chip to defaults, self-calibrate and start converting",
	Action: withDevice(true, func(c *cli.Context, dev *max11210.Device) error {
		r, err := dev.Rate(c.Context)
		if err != nil {
			return console.DeviceExit(err, "could not read rate")
		}
		console.PInfof(console.PictoFinish, "converting at %s", console.Green(r))
		return nil
	}),
}

var endCmd = &cli.Command{
	Name:  "end",
	Usage: "power the chip down",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		err := dev.End(c.Context)
		if err != nil {
			return console.DeviceExit(err, "could not power down")
		}
		console.PInfof(console.PictoStop, "powered down")
		return nil
	}),
}
