package filter

import (
	"sort"

	"github.com/stefanpenner/goalpost/pkg/store"
)

// Stats summarizes the whole collection.
type Stats struct {
	Total     int
	Active    int
	Completed int
	Percent   int
}

// Summarize counts goals by completion. Percent is rounded.
func Summarize(goals []*store.Goal) Stats {
	s := Stats{Total: len(goals)}
	for _, g := range goals {
		if g.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.Percent = (s.Completed*100 + s.Total/2) / s.Total
	}
	return s
}

// Count returns the tab count for a status.
func (s Stats) Count(st Status) int {
	switch st {
	case StatusActive:
		return s.Active
	case StatusCompleted:
		return s.Completed
	default:
		return s.Total
	}
}

// Chip is a category filter button.
type Chip struct {
	Category string // CategoryAll, CategoryNone or a category name
	Count    int
	Active   bool
}

// Chips lists the category chips for the current status tab: "all" first,
// then each category with goals under the tab, then uncategorized. A
// category with no goals under the tab gets no chip, even when selected.
func Chips(goals []*store.Goal, st State) []Chip {
	counts := CategoryCounts(goals, st.Status)
	total := 0
	for _, n := range counts {
		total += n
	}

	chips := []Chip{{Category: CategoryAll, Count: total, Active: st.Category == CategoryAll}}
	for _, c := range AvailableCategories(goals) {
		if counts[c] == 0 {
			continue
		}
		chips = append(chips, Chip{Category: c, Count: counts[c], Active: st.Category == c})
	}
	if counts[""] > 0 {
		chips = append(chips, Chip{Category: CategoryNone, Count: counts[""], Active: st.Category == CategoryNone})
	}
	return chips
}

// CategoryStat is the done/total split for one category.
type CategoryStat struct {
	Name      string // empty for uncategorized
	Total     int
	Completed int
}

// Breakdown holds the detailed statistics view.
type Breakdown struct {
	Stats
	Categories   []CategoryStat // largest first
	RecentlyDone []*store.Goal  // most recent completions first
}

const recentLimit = 5

// CategoryBreakdown computes per-category totals and the latest completions.
func CategoryBreakdown(goals []*store.Goal) Breakdown {
	b := Breakdown{Stats: Summarize(goals)}

	idx := make(map[string]int)
	for _, g := range goals {
		i, ok := idx[g.Category]
		if !ok {
			i = len(b.Categories)
			idx[g.Category] = i
			b.Categories = append(b.Categories, CategoryStat{Name: g.Category})
		}
		b.Categories[i].Total++
		if g.Completed {
			b.Categories[i].Completed++
		}
		if g.Completed && g.CompletedAt != nil {
			b.RecentlyDone = append(b.RecentlyDone, g)
		}
	}

	sort.SliceStable(b.Categories, func(i, j int) bool {
		return b.Categories[i].Total > b.Categories[j].Total
	})
	sort.SliceStable(b.RecentlyDone, func(i, j int) bool {
		return *b.RecentlyDone[i].CompletedAt > *b.RecentlyDone[j].CompletedAt
	})
	if len(b.RecentlyDone) > recentLimit {
		b.RecentlyDone = b.RecentlyDone[:recentLimit]
	}
	return b
}
