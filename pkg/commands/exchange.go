package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addExport(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all goals to a JSON file",
		Long: `Export every goal to goals_YYYY-MM-DD.json in the export directory.
An existing file is never replaced.`,
		Example: `
goalpost export
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			path, err := e.app.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d goals to %s\n", e.app.Store().Len(), path)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge goals from an exported JSON file",
		Long: `Merge goals from an exported JSON file. Goals already present, by id,
are kept as they are.`,
		Example: `
goalpost import goals_2026-02-08.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.app.ImportFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new goals (%d in file)\n", res.Merged, res.Total)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addPrint(topLevel *cobra.Command, ro *rootOptions) {
	stdout := false

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Write a printable text report",
		Example: `
goalpost print
goalpost print --stdout | lpr
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			if stdout {
				text, err := e.app.Report()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			path, err := e.app.Print(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote report to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the report to stdout instead of a file.")
	topLevel.AddCommand(cmd)
}
