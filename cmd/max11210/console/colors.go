package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
)

// Flag renders a boolean register flag: set flags in yellow, cleared ones dimmed.
func Flag(set bool) string {
	if set {
		return Yellow("1")
	}
	return color.New(color.Faint).Sprint("0")
}
