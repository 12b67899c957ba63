package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalpost/pkg/store"
)

func TestFormat(t *testing.T) {
	goals := []*store.Goal{
		{ID: "1", Title: "Read more"},
		{ID: "2", Title: "Run 10k", Category: "sport", Reason: "health", Completed: true},
		{ID: "3", Title: "Learn piano", Category: "Music"},
		{ID: "4", Title: "Swim", Category: "sport"},
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	out, err := Format(goals, now)
	require.NoError(t, err)

	music := strings.Index(out, "▎ MUSIC")
	sport := strings.Index(out, "▎ SPORT")
	none := strings.Index(out, "▎ UNCATEGORIZED")
	require.True(t, music >= 0 && sport >= 0 && none >= 0, out)
	assert.Less(t, music, sport)
	assert.Less(t, sport, none, "uncategorized last")

	assert.Contains(t, out, "  1. Run 10k (health) [✓]\n  2. Swim\n")
	assert.Contains(t, out, "  1. Read more\n")
	assert.Contains(t, out, "Total: 4 | Active: 3 | Completed: 1 (25%)\n")
	assert.True(t, strings.HasSuffix(out, "March 1, 2026\n"))
}

func TestFormatEmpty(t *testing.T) {
	_, err := Format(nil, time.Now())
	assert.ErrorIs(t, err, ErrNothingToPrint)
}

func TestFormatCategoryNamedUncategorized(t *testing.T) {
	goals := []*store.Goal{
		{ID: "1", Title: "No category"},
		{ID: "2", Title: "Named", Category: "Uncategorized"},
		{ID: "3", Title: "Also none"},
	}

	out, err := Format(goals, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "▎ UNCATEGORIZED"))
	named := strings.Index(out, "  1. Named\n")
	none := strings.Index(out, "  1. No category\n  2. Also none\n")
	require.True(t, named >= 0 && none >= 0, out)
	assert.Less(t, named, none, "goals without a category print last")
}
