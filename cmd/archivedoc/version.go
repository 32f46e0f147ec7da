package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata injected via -ldflags. Left empty for `go install`
// builds, where runtime/debug supplies the values instead.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo is the resolved build metadata for display.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

// resolveBuildInfo merges ldflags values with the module's VCS stamps.
// ldflags win; anything still missing falls back to placeholders so the
// output never shows empty fields.
func resolveBuildInfo() buildInfo {
	info := buildInfo{Version: version, Commit: commit, Date: date}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" {
			info.Version = bi.Main.Version
		}
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = setting.Value
				}
			}
		}
	}

	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	if info.Version == "" {
		info.Version = "(devel)"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// getVersion returns the version string for the root command.
func getVersion() string {
	return resolveBuildInfo().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version of archivedoc with the commit and build date it was produced from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			info := resolveBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "archivedoc %s (commit %s, built %s)\n",
				info.Version, info.Commit, info.Date)
		},
	}
}
