package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/report"
	"github.com/stefanpenner/goalpost/pkg/store"
)

const (
	iconDone   = "✓"
	iconActive = "○"
)

func addList(topLevel *cobra.Command, ro *rootOptions) {
	fo := &filterOptions{}
	oo := &outputOptions{}
	pages := 1

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals",
		Long: `List goals, active first and newest first, one page at a time.
--pages 0 lists everything.`,
		Example: `
goalpost list
goalpost list --status active --category Travel
goalpost list --search marathon --pages 0 -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.validate(); err != nil {
				return err
			}
			st, err := fo.status()
			if err != nil {
				return err
			}
			if pages < 0 {
				return fmt.Errorf("--pages must be 0 or more, got %d", pages)
			}

			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			a := e.app
			a.SetStatus(st)
			a.SetCategory(fo.Category)
			a.SetSearch(fo.Search)
			for n := 1; pages == 0 || n < pages; n++ {
				if !a.LoadMore() {
					break
				}
			}

			d := a.Display()
			goals := make([]*store.Goal, 0, d.Shown())
			for _, it := range d.Items {
				goals = append(goals, it.Goal)
			}

			if oo.JSON() {
				return outputJSON(cmd.OutOrStdout(), goals)
			}

			out := cmd.OutOrStdout()
			if d.Empty != nil {
				fmt.Fprintf(out, "%s. %s\n", d.Empty.Title, emptyHint(d.Empty.Title))
				return nil
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 60
			tbl.Wrap = true
			tbl.AddRow("", "ID", "GOAL", "CATEGORY", "REASON")
			for _, g := range goals {
				tbl.AddRow(marker(g), shortID(g.ID), g.Title, g.Category, g.Reason)
			}
			fmt.Fprintln(out, tbl)
			if d.Sentinel {
				fmt.Fprintln(out, color.New(color.Faint).Sprintf("showing %d of %d, use --pages to see more", d.Shown(), d.Total))
			}
			return nil
		},
	}

	addFilterArgs(cmd, fo)
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to show. 0 shows all.")
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func emptyHint(title string) string {
	if title == "No goals yet" {
		return "Add one with 'goalpost add'"
	}
	return "Try a different filter"
}

func marker(g *store.Goal) string {
	if g.Completed {
		return color.GreenString(iconDone)
	}
	return iconActive
}

func addCategories(topLevel *cobra.Command, ro *rootOptions) {
	fo := &filterOptions{}
	oo := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with goal counts",
		Example: `
goalpost categories
goalpost categories --status completed -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.validate(); err != nil {
				return err
			}
			st, err := fo.status()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			e.app.SetStatus(st)
			chips := e.app.Chips()
			if oo.JSON() {
				counts := make(map[string]int, len(chips))
				for _, c := range chips {
					counts[c.Category] = c.Count
				}
				return outputJSON(cmd.OutOrStdout(), counts)
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			for _, c := range chips {
				name := c.Category
				switch name {
				case filter.CategoryAll:
					name = color.New(color.Bold).Sprint("All")
				case filter.CategoryNone:
					name = report.Uncategorized
				}
				tbl.AddRow(name, strconv.Itoa(c.Count))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	cmd.Flags().StringVar(&fo.Status, "status", string(filter.StatusAll),
		"One of 'all', 'active' or 'completed'.")
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addStats(topLevel *cobra.Command, ro *rootOptions) {
	oo := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
		Example: `
goalpost stats
goalpost stats -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.validate(); err != nil {
				return err
			}
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			b := e.app.Breakdown()
			if oo.JSON() {
				return outputJSON(cmd.OutOrStdout(), b)
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("Total", strconv.Itoa(b.Total))
			tbl.AddRow("Active", strconv.Itoa(b.Active))
			tbl.AddRow("Completed", strconv.Itoa(b.Completed))
			tbl.AddRow("Progress", fmt.Sprintf("%d%%", b.Percent))
			fmt.Fprintln(out, tbl)

			if len(b.Categories) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, bold.Sprint("By category"))
				cats := uitable.New()
				cats.Separator = "  "
				for _, c := range b.Categories {
					name := c.Name
					if name == "" {
						name = report.Uncategorized
					}
					cats.AddRow(name, fmt.Sprintf("%d/%d", c.Completed, c.Total))
				}
				fmt.Fprintln(out, cats)
			}

			if len(b.RecentlyDone) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, bold.Sprint("Recently completed"))
				recent := uitable.New()
				recent.Separator = "  "
				for _, g := range b.RecentlyDone {
					at, _ := g.CompletedTime()
					recent.AddRow(color.GreenString(iconDone), g.Title, at.Format("Jan 2, 2006"))
				}
				fmt.Fprintln(out, recent)
			}
			return nil
		},
	}

	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
