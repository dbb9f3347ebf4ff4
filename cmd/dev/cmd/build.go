package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

// boards maps known single board computers to GOOS/GOARCH pairs.
var boards = map[string][2]string{
	"nanopi": {"linux", "arm"},
	"rpi":    {"linux", "arm64"},
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the max11210 cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			version := cmd.Flag("version").Value.String()
			goos := cmd.Flag("os").Value.String()
			arch := cmd.Flag("arch").Value.String()
			board := cmd.Flag("board").Value.String()
			if board != "" {
				target, ok := boards[board]
				if !ok {
					return fmt.Errorf("unknown board %q", board)
				}
				goos, arch = target[0], target[1]
			}
			out := "dist/max11210"
			if goos != runtime.GOOS || arch != runtime.GOARCH {
				out = fmt.Sprintf("dist/max11210-%s-%s", goos, arch)
			}
			// cross builds run without cgo
			return build.GoBuild(out, "./cmd/max11210", build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: "main",
				EnableCgo:     false,
				Arch:          arch,
				OS:            goos,
			})
		},
	}
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("board", "", "target board (nanopi, rpi), overrides os and arch")

	return cmd
}
