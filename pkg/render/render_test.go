package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalpost/pkg/store"
)

func makeView(n int) []*store.Goal {
	view := make([]*store.Goal, n)
	for i := range view {
		view[i] = &store.Goal{ID: fmt.Sprintf("g%d", i), Title: fmt.Sprintf("Goal %d", i)}
	}
	return view
}

func countingCards(calls *int) CardFunc {
	return func(g *store.Goal, index int) string {
		*calls++
		return fmt.Sprintf("%d:%s", index, g.Title)
	}
}

func TestRenderFullWithSentinel(t *testing.T) {
	var calls int
	r := New(countingCards(&calls))
	view := makeView(25)

	r.RenderFull(view, 20, false)
	d := r.Display()
	assert.Equal(t, 20, d.Shown())
	assert.True(t, d.Sentinel)
	assert.Nil(t, d.Empty)
	assert.Equal(t, 25, d.Total)
	assert.Equal(t, "0:Goal 0", d.Items[0].Content)
	assert.Equal(t, 20, calls)
}

func TestRenderAppendKeepsEarlierItems(t *testing.T) {
	var calls int
	r := New(countingCards(&calls))
	view := makeView(25)

	r.RenderFull(view, 20, false)
	first := r.Display().Items[0]

	r.RenderAppend(view, 20, 25)
	d := r.Display()
	require.Equal(t, 25, d.Shown())
	assert.False(t, d.Sentinel)
	assert.Equal(t, first, d.Items[0])
	assert.Equal(t, 24, d.Items[24].Index)
	assert.Equal(t, 25, calls, "only the new slice is rendered")
}

func TestRenderAppendKeepsSentinelWhenMoreRemain(t *testing.T) {
	r := New(countingCards(new(int)))
	view := makeView(50)

	r.RenderFull(view, 20, false)
	r.RenderAppend(view, 20, 40)
	assert.Equal(t, 40, r.Display().Shown())
	assert.True(t, r.Display().Sentinel)
}

func TestRenderFullEmpty(t *testing.T) {
	r := New(countingCards(new(int)))

	r.RenderFull(nil, 20, false)
	d := r.Display()
	require.NotNil(t, d.Empty)
	assert.Equal(t, "No goals yet", d.Empty.Title)
	assert.Empty(t, d.Items)
	assert.False(t, d.Sentinel)

	r.RenderFull(nil, 20, true)
	require.NotNil(t, r.Display().Empty)
	assert.Equal(t, "Nothing found", r.Display().Empty.Title)
}

func TestRenderFullReplaces(t *testing.T) {
	r := New(countingCards(new(int)))
	r.RenderFull(makeView(25), 20, false)
	r.RenderFull(makeView(3), 20, false)

	d := r.Display()
	assert.Equal(t, 3, d.Shown())
	assert.False(t, d.Sentinel)
}

func TestDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), Delay(0))
	assert.Equal(t, 90*time.Millisecond, Delay(3))
	assert.Equal(t, 300*time.Millisecond, Delay(10))
	assert.Equal(t, 300*time.Millisecond, Delay(40))
}
