package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/photo"
	"github.com/stefanpenner/goalpost/pkg/store"
)

// Add creates a goal.
func (a *App) Add(in store.Input) (*store.Goal, error) {
	g, err := a.store.Create(in)
	if err != nil {
		return nil, err
	}
	a.log.Info("goal created", slog.String("id", g.ID), slog.String("category", g.Category))
	a.refresh()
	return g, nil
}

// Edit replaces the editable fields of a goal.
func (a *App) Edit(id string, in store.Input) (*store.Goal, error) {
	g, err := a.store.Update(id, in)
	if err != nil {
		return nil, err
	}
	a.log.Info("goal updated", slog.String("id", id))
	a.refresh()
	return g, nil
}

// Delete removes a goal.
func (a *App) Delete(id string) error {
	if err := a.store.Delete(id); err != nil {
		return err
	}
	a.log.Info("goal deleted", slog.String("id", id))
	a.refresh()
	return nil
}

// Complete marks a goal complete.
func (a *App) Complete(id string) (*store.Goal, error) {
	return a.setCompleted(id, true)
}

// Reopen marks a goal incomplete again.
func (a *App) Reopen(id string) (*store.Goal, error) {
	return a.setCompleted(id, false)
}

// ToggleDone flips the completion state of a goal.
func (a *App) ToggleDone(id string) (*store.Goal, error) {
	g, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	return a.setCompleted(id, !g.Completed)
}

func (a *App) setCompleted(id string, done bool) (*store.Goal, error) {
	g, err := a.store.SetCompleted(id, done)
	if err != nil {
		return nil, err
	}
	a.log.Info("goal completion changed", slog.String("id", id), slog.Bool("completed", done))
	a.refresh()
	return g, nil
}

// CompressPhotos turns image files into stored photo strings, in order.
func (a *App) CompressPhotos(ctx context.Context, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		url, err := photo.CompressFile(ctx, a.photos, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, url)
	}
	return out, nil
}

// AttachPhotos compresses image files and appends them to a goal's photos.
func (a *App) AttachPhotos(ctx context.Context, id string, paths []string) (*store.Goal, error) {
	g, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	urls, err := a.CompressPhotos(ctx, paths)
	if err != nil {
		return nil, err
	}
	in := g.Input()
	in.Photos = append(in.Photos, urls...)
	return a.Edit(id, in)
}

// RemovePhoto drops the photo at index from a goal.
func (a *App) RemovePhoto(id string, index int) (*store.Goal, error) {
	g, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(g.Photos) {
		return nil, &store.ValidationError{Field: "photos", Message: fmt.Sprintf("no photo %d", index+1)}
	}
	in := g.Input()
	in.Photos = append(in.Photos[:index], in.Photos[index+1:]...)
	return a.Edit(id, in)
}

// SetStatus switches the status tab, which also clears the category.
func (a *App) SetStatus(st filter.Status) {
	a.filters.SetStatus(st)
	a.refresh()
}

// SetCategory selects a category chip.
func (a *App) SetCategory(category string) {
	a.filters.SetCategory(category)
	a.refresh()
}

// CycleCategory moves the chip selection by delta, wrapping around the
// visible chips.
func (a *App) CycleCategory(delta int) {
	chips := a.Chips()
	cur := 0
	for i, c := range chips {
		if c.Active {
			cur = i
			break
		}
	}
	n := len(chips)
	a.SetCategory(chips[((cur+delta)%n+n)%n].Category)
}

// SetSearch applies a query right away.
func (a *App) SetSearch(raw string) {
	a.searchSeq++
	a.pendingSearch = ""
	a.filters.SetSearch(raw)
	a.refresh()
}

// QueueSearch records raw as the latest query without applying it. The
// caller applies it with ApplySearch once the input has been quiet.
func (a *App) QueueSearch(raw string) int {
	a.searchSeq++
	a.pendingSearch = raw
	return a.searchSeq
}

// ApplySearch applies the queued query if seq is still the latest one. It
// reports whether the view changed.
func (a *App) ApplySearch(seq int) bool {
	if seq != a.searchSeq {
		return false
	}
	q := filter.NormalizeQuery(a.pendingSearch)
	if q == a.filters.Search {
		return false
	}
	a.filters.Search = q
	a.refresh()
	return true
}

// LoadMore appends the next page to the display. It returns false when
// everything is already shown.
func (a *App) LoadMore() bool {
	if !a.pager.CanLoadMore(len(a.view)) {
		return false
	}
	from, to := a.pager.Advance(len(a.view))
	a.renderer.RenderAppend(a.view, from, to)
	return true
}

// StartReview starts a slideshow over the active goals in the selected
// category.
func (a *App) StartReview() error {
	return a.review.Start(filter.ReviewCandidates(a.store.Goals(), a.filters.Category))
}
