// Package report formats the printable plain-text goal list.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/store"
)

// ErrNothingToPrint is returned for an empty collection.
var ErrNothingToPrint = errors.New("no goals to print")

// Uncategorized names the group of goals without a category.
const Uncategorized = "Uncategorized"

var (
	heavyRule = strings.Repeat("═", 42)
	lightRule = strings.Repeat("─", 42)
)

// Format renders goals grouped by category. Groups are alphabetical with
// uncategorized goals last. Goals keep collection order within a group.
func Format(goals []*store.Goal, now time.Time) (string, error) {
	if len(goals) == 0 {
		return "", ErrNothingToPrint
	}

	// Keyed by raw category so a category literally named Uncategorized
	// stays apart from goals that have none.
	groups := make(map[string][]*store.Goal)
	var names []string
	for _, g := range goals {
		if _, ok := groups[g.Category]; !ok {
			names = append(names, g.Category)
		}
		groups[g.Category] = append(groups[g.Category], g)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", heavyRule, center("MY GOALS", 42), heavyRule)
	for _, name := range names {
		heading := name
		if heading == "" {
			heading = Uncategorized
		}
		fmt.Fprintf(&b, "▎ %s\n%s\n", strings.ToUpper(heading), lightRule)
		for i, g := range groups[name] {
			fmt.Fprintf(&b, "  %d. %s", i+1, g.Title)
			if g.Reason != "" {
				fmt.Fprintf(&b, " (%s)", g.Reason)
			}
			if g.Completed {
				b.WriteString(" [✓]")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	st := filter.Summarize(goals)
	fmt.Fprintf(&b, "%s\nTotal: %d | Active: %d | Completed: %d (%d%%)\n%s\n",
		heavyRule, st.Total, st.Active, st.Completed, st.Percent, now.Format("January 2, 2006"))
	return b.String(), nil
}

func center(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
