// Package app is the single owner of goalpost's application state. Every
// UI surface (the TUI and the CLI) drives the goal collection through an
// App, which keeps the filtered view, the pager and the rendered display
// consistent after each mutation.
package app

import (
	"log/slog"
	"time"

	"github.com/stefanpenner/goalpost/pkg/autoexport"
	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/kv"
	"github.com/stefanpenner/goalpost/pkg/pager"
	"github.com/stefanpenner/goalpost/pkg/photo"
	"github.com/stefanpenner/goalpost/pkg/render"
	"github.com/stefanpenner/goalpost/pkg/review"
	"github.com/stefanpenner/goalpost/pkg/store"
)

// Options configures an App. Zero values pick the defaults.
type Options struct {
	PageSize       int
	AutoExportDays int
	Card           render.CardFunc
	Saver          Saver
	Photos         photo.Compressor
	Logger         *slog.Logger
	Now            func() time.Time
}

// App holds the goal store together with the derived view state. It is not
// safe for concurrent use; callers serialize access on one event loop.
type App struct {
	kv        kv.Store
	store     *store.Store
	filters   filter.State
	pager     *pager.Pager
	view      []*store.Goal
	renderer  *render.Renderer
	scheduler *autoexport.Scheduler
	review    *review.Sequencer
	saver     Saver
	photos    photo.Compressor
	log       *slog.Logger
	now       func() time.Time

	searchSeq     int
	pendingSearch string
}

// New wires an App around an opened store and renders the initial view.
func New(kvs kv.Store, s *store.Store, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Card == nil {
		opts.Card = func(g *store.Goal, _ int) string { return g.Title }
	}
	if opts.Photos == nil {
		opts.Photos = photo.Default()
	}

	a := &App{
		kv:        kvs,
		store:     s,
		filters:   filter.DefaultState(),
		pager:     pager.New(opts.PageSize),
		renderer:  render.New(opts.Card),
		scheduler: autoexport.New(kvs, opts.AutoExportDays, opts.Now),
		review:    review.New(),
		saver:     opts.Saver,
		photos:    opts.Photos,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.Recovered != nil {
		a.log.Warn("stored goals were unreadable, started empty",
			slog.String("backup_key", store.CorruptKey),
			slog.String("error", s.Recovered.Error()))
	}
	a.refresh()
	return a
}

// Store returns the underlying goal store.
func (a *App) Store() *store.Store { return a.store }

// Filters returns the active filter selection.
func (a *App) Filters() filter.State { return a.filters }

// View returns the filtered, sorted goals.
func (a *App) View() []*store.Goal { return a.view }

// Display returns the rendered surface.
func (a *App) Display() *render.Display { return a.renderer.Display() }

// Pager returns the pagination state.
func (a *App) Pager() *pager.Pager { return a.pager }

// Scheduler returns the auto-export scheduler.
func (a *App) Scheduler() *autoexport.Scheduler { return a.scheduler }

// Review returns the review sequencer.
func (a *App) Review() *review.Sequencer { return a.review }

// Recovered reports a snapshot that could not be read at startup.
func (a *App) Recovered() *store.FormatError { return a.store.Recovered }

// Stats summarizes the whole collection.
func (a *App) Stats() filter.Stats { return filter.Summarize(a.store.Goals()) }

// Breakdown returns the detailed statistics.
func (a *App) Breakdown() filter.Breakdown { return filter.CategoryBreakdown(a.store.Goals()) }

// Chips returns the category chips for the active status tab.
func (a *App) Chips() []filter.Chip { return filter.Chips(a.store.Goals(), a.filters) }

// Categories returns every category in use, for form suggestions.
func (a *App) Categories() []string { return filter.AvailableCategories(a.store.Goals()) }

// Get returns one goal.
func (a *App) Get(id string) (*store.Goal, error) { return a.store.Get(id) }

// Reload re-reads the store after an external write and re-renders.
func (a *App) Reload() error {
	if err := a.store.Reload(); err != nil {
		return err
	}
	a.refresh()
	return nil
}

// ReloadIfChanged reloads only when the stored collection was written by
// someone else since this app last loaded or saved it.
func (a *App) ReloadIfChanged() (bool, error) {
	changed, err := a.store.Changed()
	if err != nil || !changed {
		return false, err
	}
	return true, a.Reload()
}

// refresh recomputes the view, rewinds the pager and redraws everything.
func (a *App) refresh() {
	a.view = filter.ComputeView(a.store.Goals(), a.filters)
	a.pager.Reset(len(a.view))
	a.renderer.RenderFull(a.view, a.pager.Cursor(), a.filters.Search != "")
}
