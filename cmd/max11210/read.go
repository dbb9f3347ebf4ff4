package main

import (
	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/mklimuk/adc/max11210"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

var readCmd = &cli.Command{
	Name:  "read",
	Usage: "read conversion results",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "count",
			Usage: "number of samples, 0 reads until interrupted",
			Value: 1,
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "maximum samples per second printed (0 follows the chip)",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "print the DATA register verbatim",
		},
		&cli.BoolFlag{
			Name:  "begin",
			Usage: "reset and self-calibrate the chip before reading",
		},
	},
	Action: func(c *cli.Context) error {
		return withDevice(c.Bool("begin"), readSamples)(c)
	},
}

func newLimiter(hz float64) *rate.Limiter {
	if hz <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(hz), 1)
}

func readSamples(c *cli.Context, dev *max11210.Device) error {
	ctx := c.Context
	format, err := dev.Format(ctx)
	if err != nil {
		return console.DeviceExit(err, "could not read data format")
	}
	limiter := newLimiter(c.Float64("rate"))
	count := c.Int("count")
	for i := 0; count <= 0 || i < count; i++ {
		err = limiter.Wait(ctx)
		if err != nil {
			// interrupted
			return nil
		}
		raw, err := dev.ReadRaw(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return console.DeviceExit(err, "could not read sample %d", i)
		}
		if c.Bool("raw") {
			console.Printf("%s\n", hexWord(raw))
			continue
		}
		console.Printf("%d\n", max11210.DecodeSample(raw, format))
	}
	return nil
}

var statusCmd = &cli.Command{
	Name:  "status",
	Usage: "print STAT1 flags of a running chip",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		st, err := dev.ReadStatus(c.Context)
		if err != nil {
			return console.DeviceExit(err, "could not read status")
		}
		console.PInfof(console.PictoGear, "status")
		console.KV("rate", console.Cyan(st.Rate))
		console.KV("ready", console.Flag(st.Ready))
		console.KV("measuring", console.Flag(st.Measuring))
		console.KV("over range", console.Flag(st.OverRange))
		console.KV("under range", console.Flag(st.UnderRange))
		console.KV("sys gain over range", console.Flag(st.SysGainOverRange))
		return nil
	}),
}

type dumpDoc struct {
	Registers map[string]string `yaml:"registers"`
	Status    max11210.Status   `yaml:"status"`
	Config    max11210.Config   `yaml:"config"`
}

func newDumpDoc(regs max11210.Registers, status max11210.Status, config max11210.Config) dumpDoc {
	return dumpDoc{
		Registers: map[string]string{
			max11210.STAT1.String(): hexByte(regs.STAT1),
			max11210.CTRL1.String(): hexByte(regs.CTRL1),
			max11210.CTRL2.String(): hexByte(regs.CTRL2),
			max11210.CTRL3.String(): hexByte(regs.CTRL3),
			max11210.DATA.String():  hexWord(regs.DATA),
			max11210.SOC.String():   hexWord(regs.SOC),
			max11210.SGC.String():   hexWord(regs.SGC),
			max11210.SCOC.String():  hexWord(regs.SCOC),
			max11210.SCGC.String():  hexWord(regs.SCGC),
		},
		Status: status,
		Config: config,
	}
}

var dumpCmd = &cli.Command{
	Name:  "dump",
	Usage: "print every register of a running chip as yaml",
	Action: withDevice(false, func(c *cli.Context, dev *max11210.Device) error {
		ctx := c.Context
		regs, err := dev.ReadRegisters(ctx)
		if err != nil {
			return console.DeviceExit(err, "could not read registers")
		}
		status, err := dev.ReadStatus(ctx)
		if err != nil {
			return console.DeviceExit(err, "could not read status")
		}
		config, err := dev.ReadConfig(ctx)
		if err != nil {
			return console.DeviceExit(err, "could not read configuration")
		}
		enc := yaml.NewEncoder(console.Output())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(newDumpDoc(regs, status, config))
	}),
}
