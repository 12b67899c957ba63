// Package filter derives ordered views over the goal collection. Every
// function here is pure: it reads the goals and never mutates them.
package filter

import (
	"sort"
	"strings"

	"github.com/stefanpenner/goalpost/pkg/store"
)

// Status selects goals by completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Statuses lists the status tabs in display order.
var Statuses = []Status{StatusAll, StatusActive, StatusCompleted}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAll, StatusActive, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

const (
	// CategoryAll matches every category.
	CategoryAll = "all"
	// CategoryNone matches goals without a category.
	CategoryNone = "__none__"
)

// State is the active filter selection.
type State struct {
	Status   Status
	Category string
	Search   string // already trimmed and lowercased
}

// DefaultState shows everything.
func DefaultState() State {
	return State{Status: StatusAll, Category: CategoryAll}
}

// SetStatus switches the status tab. The category filter resets to all,
// since the chips available depend on the tab.
func (s *State) SetStatus(st Status) {
	s.Status = st
	s.Category = CategoryAll
}

// SetCategory selects a category chip.
func (s *State) SetCategory(c string) {
	if c == "" {
		c = CategoryAll
	}
	s.Category = c
}

// SetSearch normalizes and stores the search query.
func (s *State) SetSearch(q string) {
	s.Search = NormalizeQuery(q)
}

// NormalizeQuery trims and lowercases raw search input.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// ComputeView applies the status, category and search filters in that
// order, then sorts incomplete goals before completed ones, newest first
// within each group. Goals without a creation time sort as oldest.
func ComputeView(goals []*store.Goal, st State) []*store.Goal {
	list := ByStatus(goals, st.Status)
	list = ByCategory(list, st.Category)
	list = BySearch(list, st.Search)

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt > b.CreatedAt
	})
	return list
}

// ByStatus keeps goals matching the status. The result is a new slice.
func ByStatus(goals []*store.Goal, st Status) []*store.Goal {
	out := make([]*store.Goal, 0, len(goals))
	for _, g := range goals {
		switch st {
		case StatusActive:
			if g.Completed {
				continue
			}
		case StatusCompleted:
			if !g.Completed {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}

// ByCategory keeps goals matching the category filter. Category names
// match exactly, case-sensitive.
func ByCategory(goals []*store.Goal, category string) []*store.Goal {
	if category == "" || category == CategoryAll {
		return goals
	}
	out := make([]*store.Goal, 0, len(goals))
	for _, g := range goals {
		if category == CategoryNone {
			if g.Uncategorized() {
				out = append(out, g)
			}
			continue
		}
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}

// BySearch keeps goals whose title, reason or category contains query,
// case-insensitively. An empty query keeps everything.
func BySearch(goals []*store.Goal, query string) []*store.Goal {
	query = NormalizeQuery(query)
	if query == "" {
		return goals
	}
	out := make([]*store.Goal, 0, len(goals))
	for _, g := range goals {
		if strings.Contains(strings.ToLower(g.Title), query) ||
			strings.Contains(strings.ToLower(g.Reason), query) ||
			strings.Contains(strings.ToLower(g.Category), query) {
			out = append(out, g)
		}
	}
	return out
}

// AvailableCategories returns the distinct non-empty categories, sorted.
func AvailableCategories(goals []*store.Goal) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, g := range goals {
		if g.Category == "" || seen[g.Category] {
			continue
		}
		seen[g.Category] = true
		cats = append(cats, g.Category)
	}
	sort.Strings(cats)
	return cats
}

// CategoryCounts counts goals per category within the status-filtered
// subset. Uncategorized goals count under the empty string.
func CategoryCounts(goals []*store.Goal, st Status) map[string]int {
	counts := make(map[string]int)
	for _, g := range ByStatus(goals, st) {
		counts[g.Category]++
	}
	return counts
}

// ReviewCandidates returns the active goals narrowed by the category
// filter, in collection order.
func ReviewCandidates(goals []*store.Goal, category string) []*store.Goal {
	return ByCategory(ByStatus(goals, StatusActive), category)
}
