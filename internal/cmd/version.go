package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at release build time; development builds
// fall back to module build info.
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Podium version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("podium " + resolveVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
