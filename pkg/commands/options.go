package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/goalpost/pkg/filter"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	Dir string
}

func addRootArgs(cmd *cobra.Command, o *rootOptions) {
	cmd.PersistentFlags().StringVar(&o.Dir, "dir", "",
		"Data directory. Overrides GOALPOST_DIR and the config file.")
}

// goalOptions are the editable goal fields taken from flags.
type goalOptions struct {
	Title       string
	Reason      string
	Category    string
	Photos      []string
	ClearPhotos bool
}

func addGoalArgs(cmd *cobra.Command, o *goalOptions) {
	cmd.Flags().StringVarP(&o.Reason, "reason", "r", "",
		"Why this goal matters.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Category, e.g. Travel or Health.")
	cmd.Flags().StringSliceVarP(&o.Photos, "photo", "p", nil,
		"Image file to attach. Repeat for more than one.")
}

// filterOptions select which goals a listing shows.
type filterOptions struct {
	Status   string
	Category string
	Search   string
}

func addFilterArgs(cmd *cobra.Command, o *filterOptions) {
	cmd.Flags().StringVar(&o.Status, "status", string(filter.StatusAll),
		"One of 'all', 'active' or 'completed'.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", filter.CategoryAll,
		"Category to show. 'all' for every category, '"+filter.CategoryNone+"' for uncategorized.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only goals whose title, reason or category contains this text.")
	_ = cmd.RegisterFlagCompletionFunc("status", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			out = append(out, string(s))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

func (o *filterOptions) status() (filter.Status, error) {
	st, ok := filter.ParseStatus(o.Status)
	if !ok {
		return "", fmt.Errorf("unknown status %q (use all, active or completed)", o.Status)
	}
	return st, nil
}

// outputOptions choose between the table and JSON output.
type outputOptions struct {
	Output string
}

func addOutputArg(cmd *cobra.Command, o *outputOptions) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "table",
		"Output format. One of 'table' or 'json'.")
}

func (o *outputOptions) validate() error {
	switch o.Output {
	case "table", "json":
		return nil
	}
	return fmt.Errorf("unknown output %q (use table or json)", o.Output)
}

func (o *outputOptions) JSON() bool { return o.Output == "json" }

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
