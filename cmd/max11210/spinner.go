package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/mklimuk/adc/cmd/max11210/console"
	"github.com/theckman/yacspin"
)

// withSpinner shows a spinner on the terminal while a calibration runs.
func withSpinner(ctx context.Context, message string, fn func(context.Context) error) error {
	spinner, err := yacspin.New(yacspin.Config{
		Writer:            console.Output(),
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " ",
		Message:           message,
		StopCharacter:     "✓",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "✗",
		StopFailColors:    []string{"fgRed"},
	})
	if err != nil || console.IsVerbose(ctx) {
		// debug output would interleave with the spinner
		return fn(ctx)
	}
	if err := spinner.Start(); err != nil {
		slog.Debug("spinner unavailable", "error", err)
		return fn(ctx)
	}
	err = fn(ctx)
	if err != nil {
		_ = spinner.StopFail()
		return err
	}
	_ = spinner.Stop()
	return nil
}
