package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

const develVersion = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		v := resolveVersion(version)
		if short {
			fmt.Println(shortVersion(v))
			return
		}
		fmt.Println("hanzi", v)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only major.minor")
}

// resolveVersion normalizes v to a canonical semver, falling back to the
// module version recorded by go install.
func resolveVersion(v string) string {
	if v == develVersion {
		if info, ok := debug.ReadBuildInfo(); ok {
			v = info.Main.Version
		}
	}
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return develVersion
	}
	return semver.Canonical(v)
}

func shortVersion(v string) string {
	if !semver.IsValid(v) {
		return v
	}
	return semver.MajorMinor(v)
}
