package tui

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/report"
	"github.com/stefanpenner/goalpost/pkg/store"
)

// Card is the render.CardFunc for the goal list: the title, the category
// tag and a photo count. The status icon and selection are drawn by the
// view, since they depend on the theme and the cursor.
func Card(g *store.Goal, _ int) string {
	var b strings.Builder
	b.WriteString(g.Title)
	if g.Category != "" {
		b.WriteString("  #")
		b.WriteString(g.Category)
	}
	if n := len(g.Photos); n > 0 {
		fmt.Fprintf(&b, "  %s%d", IconPhoto, n)
	}
	return b.String()
}

// truncate shortens s to width cells, ending with an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// categoryLabel names a chip category for display.
func categoryLabel(c string) string {
	switch c {
	case filter.CategoryAll:
		return "All"
	case filter.CategoryNone:
		return report.Uncategorized
	}
	return c
}
