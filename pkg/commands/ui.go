package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/goalpost/pkg/tui"
)

func addUI(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the terminal UI",
		Example: `
goalpost ui
goalpost
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runUI(cmd, ro)
		},
	}
	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, ro *rootOptions) error {
	e, err := openEnv(cmd, ro, tui.Card)
	if err != nil {
		return err
	}
	defer e.Close()

	m := tui.NewModel(e.app, tui.Options{StoreDir: e.disk.Dir(), ExportDir: e.cfg.ExportDir})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// Reload when another goalpost process writes the store
	cleanup, err := tui.StartWatcher(e.disk.Dir(), p)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: file watcher failed: %v\n", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
