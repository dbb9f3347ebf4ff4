package console

import (
	"errors"
	"fmt"

	"github.com/mklimuk/adc"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	CodeUsage   = 1
	CodeDevice  = 2
	CodeTimeout = 3
)

func Exit(code int, msg string, args ...interface{}) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(msg, args...), code)
}

// DeviceExit maps a driver error to an exit error; a silent chip gets its own code.
func DeviceExit(err error, msg string, args ...interface{}) cli.ExitCoder {
	code := CodeDevice
	if errors.Is(err, adc.ErrTimeout) {
		code = CodeTimeout
	}
	return cli.Exit(fmt.Sprintf("%s: %v", fmt.Sprintf(msg, args...), err), code)
}
