// Package render materializes the paginated view into display items,
// either replacing the whole display or appending a newly visible page.
package render

import (
	"time"

	"github.com/stefanpenner/goalpost/pkg/store"
)

const (
	staggerStep = 30 * time.Millisecond
	staggerMax  = 300 * time.Millisecond
)

// CardFunc produces the display representation of one goal. index is the
// goal's position in the view.
type CardFunc func(g *store.Goal, index int) string

// Item is one rendered card.
type Item struct {
	Goal    *store.Goal
	Index   int
	Delay   time.Duration
	Content string
}

// Placeholder is shown instead of items when the view is empty.
type Placeholder struct {
	Title string
	Hint  string
}

var (
	noResults = Placeholder{Title: "Nothing found", Hint: "Try a different query"}
	noGoals   = Placeholder{Title: "No goals yet", Hint: "Press a to add one"}
)

// Display is the rendered surface. Sentinel marks the trailing "loading
// more" row, present only while items beyond the last one remain.
type Display struct {
	Items    []Item
	Sentinel bool
	Empty    *Placeholder
	Total    int
}

// Shown returns how many goals are displayed.
func (d *Display) Shown() int { return len(d.Items) }

// Renderer owns the display and rebuilds it from views.
type Renderer struct {
	card    CardFunc
	display Display
}

// New returns a renderer that formats cards with card.
func New(card CardFunc) *Renderer {
	return &Renderer{card: card}
}

// Display returns the current surface. Callers must not modify it.
func (r *Renderer) Display() *Display { return &r.display }

// Delay is the staggered entrance delay for the card at index.
func Delay(index int) time.Duration {
	return min(time.Duration(index)*staggerStep, staggerMax)
}

// RenderFull discards the display and draws view[0:cursor]. An empty view
// draws the placeholder for the current search state instead.
func (r *Renderer) RenderFull(view []*store.Goal, cursor int, searching bool) {
	r.display = Display{Total: len(view)}
	if len(view) == 0 {
		p := noGoals
		if searching {
			p = noResults
		}
		r.display.Empty = &p
		return
	}

	count := min(max(cursor, 0), len(view))
	r.display.Items = make([]Item, 0, count)
	r.appendItems(view, 0, count)
	r.display.Sentinel = count < len(view)
}

// RenderAppend adds view[from:to] after the existing items. Earlier items
// are left untouched.
func (r *Renderer) RenderAppend(view []*store.Goal, from, to int) {
	r.display.Sentinel = false
	to = min(to, len(view))
	if from < to {
		r.appendItems(view, from, to)
	}
	r.display.Total = len(view)
	r.display.Sentinel = to < len(view)
}

func (r *Renderer) appendItems(view []*store.Goal, from, to int) {
	for i := from; i < to; i++ {
		r.display.Items = append(r.display.Items, Item{
			Goal:    view[i],
			Index:   i,
			Delay:   Delay(i),
			Content: r.card(view[i], i),
		})
	}
}
