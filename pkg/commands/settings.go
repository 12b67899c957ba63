package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/goalpost/pkg/app"
)

func addAutoExport(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:       "autoexport [on|off|status]",
		Short:     "Turn periodic automatic export on or off",
		ValidArgs: []string{"on", "off", "status"},
		Example: `
goalpost autoexport on
goalpost autoexport status
`,
		Args: cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) == 1 && args[0] != "status" {
				if err := e.app.SetAutoExport(args[0] == "on"); err != nil {
					return err
				}
			}

			st, err := e.app.AutoExportStatus()
			if err != nil {
				return err
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			state := "off"
			if st.Enabled {
				state = color.GreenString("on")
			}
			tbl.AddRow("Auto-export", state)
			tbl.AddRow("Every", fmt.Sprintf("%d days", e.cfg.AutoExportDays))
			tbl.AddRow("Directory", e.cfg.ExportDir)
			if st.Exported {
				tbl.AddRow("Last export", st.LastExport.Format("Jan 2, 2006 15:04"))
				if st.Enabled {
					tbl.AddRow("Next export", fmt.Sprintf("in %d days", st.DaysLeft))
				}
			} else {
				tbl.AddRow("Last export", "never")
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addTheme(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the color theme of the terminal UI",
		ValidArgs: []string{string(app.ThemeDark), string(app.ThemeLight)},
		Example: `
goalpost theme
goalpost theme dark
`,
		Args: cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) == 1 {
				t, err := app.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if err := e.app.SetTheme(t); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.app.Theme())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
