// Package pager tracks how much of the filtered view is materialized.
package pager

// DefaultPageSize is the number of cards shown per page.
const DefaultPageSize = 20

// Pager holds the cursor into the current view. The cursor never exceeds
// the view size it was last given.
type Pager struct {
	size   int
	cursor int
}

// New returns a pager with the given page size. A non-positive size uses
// DefaultPageSize.
func New(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{size: pageSize, cursor: pageSize}
}

// PageSize returns the configured page size.
func (p *Pager) PageSize() int { return p.size }

// Cursor returns the number of materialized items.
func (p *Pager) Cursor() int { return p.cursor }

// Reset rewinds the cursor to the first page, clamped to viewSize. Call it
// whenever the filters or the collection change.
func (p *Pager) Reset(viewSize int) {
	p.cursor = min(p.size, max(viewSize, 0))
}

// CanLoadMore reports whether items beyond the cursor exist.
func (p *Pager) CanLoadMore(viewSize int) bool {
	return p.cursor < viewSize
}

// Advance moves the cursor forward by one page and returns the range
// [from, to) that became visible. When nothing remains, from == to.
func (p *Pager) Advance(viewSize int) (from, to int) {
	from = p.cursor
	if from > viewSize {
		from = viewSize
	}
	p.cursor = min(from+p.size, viewSize)
	return from, p.cursor
}
