package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/goalpost/pkg/store"
)

func addAdd(topLevel *cobra.Command, ro *rootOptions) {
	o := &goalOptions{}

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a goal",
		Example: `
goalpost add see the northern lights --reason "always wanted to" --category Travel
goalpost add run a marathon -c Health -p ~/Pictures/finish.jpg
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			o.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			photos, err := e.app.CompressPhotos(cmd.Context(), o.Photos)
			if err != nil {
				return err
			}
			g, err := e.app.Add(store.Input{
				Title:    o.Title,
				Reason:   o.Reason,
				Category: o.Category,
				Photos:   photos,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", color.New(color.Faint).Sprint(shortID(g.ID)), g.Title)
			return nil
		},
	}

	addGoalArgs(cmd, o)
	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, ro *rootOptions) {
	o := &goalOptions{}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a goal",
		Long: `Edit a goal. With no flags the goal opens in $EDITOR as markdown
with YAML front matter: title and category above, the reason below.`,
		Example: `
goalpost edit 3f2a --category Travel
goalpost edit 3f2a --photo beach.jpg --clear-photos
goalpost edit 3f2a
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := resolveID(e.app, args[0])
			if err != nil {
				return err
			}
			g, err := e.app.Get(id)
			if err != nil {
				return err
			}

			var in store.Input
			flags := cmd.Flags()
			if !anyChanged(cmd, "title", "reason", "category", "photo", "clear-photos") {
				in, err = editInEditor(g)
				if err != nil {
					return err
				}
			} else {
				in = g.Input()
				if flags.Changed("title") {
					in.Title = o.Title
				}
				if flags.Changed("reason") {
					in.Reason = o.Reason
				}
				if flags.Changed("category") {
					in.Category = o.Category
				}
				if o.ClearPhotos {
					in.Photos = nil
				}
				photos, err := e.app.CompressPhotos(cmd.Context(), o.Photos)
				if err != nil {
					return err
				}
				in.Photos = append(in.Photos, photos...)
			}

			g, err = e.app.Edit(id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", color.New(color.Faint).Sprint(shortID(g.ID)), g.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.Title, "title", "t", "", "New title.")
	addGoalArgs(cmd, o)
	cmd.Flags().BoolVar(&o.ClearPhotos, "clear-photos", false,
		"Remove existing photos before adding any --photo.")
	topLevel.AddCommand(cmd)
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// editInEditor round-trips a goal through $EDITOR as front matter.
func editInEditor(g *store.Goal) (store.Input, error) {
	path, err := store.WriteEditorFile(g)
	if err != nil {
		return store.Input{}, err
	}
	defer os.Remove(path)

	c := store.EditorCommand(path)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return store.Input{}, fmt.Errorf("running editor: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return store.Input{}, fmt.Errorf("reading edited goal: %w", err)
	}
	return store.ParseFrontmatter(string(edited), g)
}

func addDone(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"complete"},
		Short:   "Mark a goal complete",
		Example: `
goalpost done 3f2a
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDone(cmd, ro, args[0], true)
		},
	}
	topLevel.AddCommand(cmd)
}

func addUndo(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "undo ID",
		Aliases: []string{"reopen"},
		Short:   "Mark a completed goal active again",
		Example: `
goalpost undo 3f2a
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDone(cmd, ro, args[0], false)
		},
	}
	topLevel.AddCommand(cmd)
}

func setDone(cmd *cobra.Command, ro *rootOptions, prefix string, done bool) error {
	cmd.SilenceUsage = true
	e, err := openEnv(cmd, ro, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	id, err := resolveID(e.app, prefix)
	if err != nil {
		return err
	}
	if done {
		g, err := e.app.Complete(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString(iconDone), g.Title)
		return nil
	}
	g, err := e.app.Reopen(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", iconActive, g.Title)
	return nil
}

func addRemove(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a goal",
		Example: `
goalpost rm 3f2a
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv(cmd, ro, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := resolveID(e.app, args[0])
			if err != nil {
				return err
			}
			g, err := e.app.Get(id)
			if err != nil {
				return err
			}
			title := g.Title
			if err := e.app.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", title)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
