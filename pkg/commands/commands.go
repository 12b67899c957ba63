// Package commands implements the goalpost command line.
package commands

import (
	"github.com/spf13/cobra"
)

// BuildInfo identifies the binary for the version command.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// New returns the root command. Running it without a subcommand starts
// the terminal UI.
func New(info BuildInfo) *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "goalpost",
		Short: "Track goals, the reasons behind them, and your progress.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runUI(cmd, ro)
		},
		// main reports the error
		SilenceErrors: true,
	}
	addRootArgs(cmd, ro)

	AddCommands(cmd, ro, info)
	return cmd
}

// AddCommands registers every subcommand on topLevel.
func AddCommands(topLevel *cobra.Command, ro *rootOptions, info BuildInfo) {
	addUI(topLevel, ro)
	addAdd(topLevel, ro)
	addEdit(topLevel, ro)
	addDone(topLevel, ro)
	addUndo(topLevel, ro)
	addRemove(topLevel, ro)
	addList(topLevel, ro)
	addCategories(topLevel, ro)
	addStats(topLevel, ro)
	addExport(topLevel, ro)
	addImport(topLevel, ro)
	addPrint(topLevel, ro)
	addAutoExport(topLevel, ro)
	addTheme(topLevel, ro)
	addVersion(topLevel, info)
}
