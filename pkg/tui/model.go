package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/mitchellh/go-homedir"

	"github.com/stefanpenner/goalpost/pkg/app"
	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/review"
	"github.com/stefanpenner/goalpost/pkg/store"
)

const (
	searchDebounce = 200 * time.Millisecond
	statusDuration = 3 * time.Second
	revealStep     = 30 * time.Millisecond
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	ID   string
	Path string
	Err  error
}

type searchDebounceMsg struct{ seq int }

type reviewTickMsg struct{ gen int }

type revealTickMsg struct{ gen int }

type photosCompressedMsg struct {
	in   store.Input
	urls []string
	err  error
}

type importReadMsg struct {
	path string
	data []byte
	err  error
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirm
	modeImport
	modeReview
	modeSettings
	modeStats
	modeHelp
)

type confirmKind int

const (
	confirmComplete confirmKind = iota
	confirmDelete
)

type pendingConfirm struct {
	kind  confirmKind
	id    string
	title string
}

const (
	settingAutoExport = iota
	settingTheme
	settingCount
)

// Options configures the model.
type Options struct {
	StoreDir  string
	ExportDir string
	Context   context.Context
	Now       func() time.Time
}

// Model is the Bubble Tea model for the goal tracker.
type Model struct {
	app        *app.App
	opts       Options
	keys       KeyMap
	reviewKeys ReviewKeyMap
	theme      app.Theme
	styles     Styles
	width      int
	height     int
	mode       mode
	cursor     int

	search      textinput.Model
	importInput textinput.Model
	form        goalForm
	confirm     pendingConfirm
	setting     int

	// Status message
	statusMsg     string
	statusErr     bool
	statusTimeout time.Time

	// Staggered card entrance
	revealGen   int
	revealFrom  int
	revealStart time.Time

	thumbs thumbCache

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
	glamourTheme    app.Theme
}

// NewModel creates a new TUI model around a.
func NewModel(a *app.App, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	search := textinput.New()
	search.Prompt = " / "
	search.Placeholder = "search goals"
	search.CharLimit = 100

	imp := textinput.New()
	imp.Placeholder = "path to goals_YYYY-MM-DD.json"

	m := Model{
		app:         a,
		opts:        opts,
		keys:        DefaultKeyMap(),
		reviewKeys:  DefaultReviewKeyMap(),
		search:      search,
		importInput: imp,
		thumbs:      make(thumbCache),
	}
	m.applyTheme(a.Theme())
	if rec := a.Recovered(); rec != nil {
		m.setError(fmt.Errorf("stored goals were unreadable and set aside: %w", rec.Err))
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(m.detailWidth() - 2)
		return m, tea.Batch(tea.ClearScreen, m.fillViewport())

	case FileChangedMsg:
		// Our own writes echo back through the watcher; only reload when
		// the stored collection is not the one we last saw.
		changed, err := m.app.ReloadIfChanged()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if !changed {
			return m, nil
		}
		m.clampCursor()
		return m, m.rendered(true)

	case EditorFinishedMsg:
		return m.finishEditor(msg)

	case searchDebounceMsg:
		if m.app.ApplySearch(msg.seq) {
			m.cursor = 0
			return m, m.rendered(true)
		}
		return m, nil

	case reviewTickMsg:
		if m.mode == modeReview && m.app.Review().Tick(msg.gen) {
			return m, m.reviewTick(msg.gen)
		}
		return m, nil

	case revealTickMsg:
		if msg.gen == m.revealGen && m.revealing() {
			return m, m.revealTick()
		}
		return m, nil

	case photosCompressedMsg:
		if msg.err != nil {
			return m, m.form.fail(msg.err, fieldPhotos)
		}
		msg.in.Photos = append(msg.in.Photos, msg.urls...)
		return m.saveForm(msg.in)

	case importReadMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		res, err := m.app.Import(bytes.NewReader(msg.data))
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Imported %d new goals from %d", res.Merged, res.Total))
		return m, m.rendered(true)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Cursor blink and other input housekeeping
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeImport:
		m.importInput, cmd = m.importInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchInput(msg)
	case modeForm:
		return m.handleForm(msg)
	case modeConfirm:
		return m.handleConfirm(msg)
	case modeImport:
		return m.handleImport(msg)
	case modeReview:
		return m.handleReview(msg)
	case modeSettings:
		return m.handleSettings(msg)
	case modeStats, modeHelp:
		switch msg.String() {
		case "esc", "enter", "q", "?", "S":
			m.mode = modeList
		}
		return m, nil
	}

	// If search filter is active (not typing), Esc clears it
	if m.app.Filters().Search != "" && msg.Type == tea.KeyEsc {
		return m.clearSearch()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.app.Display().Shown()-1 {
			m.cursor++
		}
		return m, m.fillViewport()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(m.app.Display().Shown()-1, 0)
		return m, m.fillViewport()

	case key.Matches(msg, m.keys.AllTab):
		return m.switchStatus(filter.StatusAll)
	case key.Matches(msg, m.keys.ActiveTab):
		return m.switchStatus(filter.StatusActive)
	case key.Matches(msg, m.keys.DoneTab):
		return m.switchStatus(filter.StatusCompleted)
	case key.Matches(msg, m.keys.NextTab):
		cur := 0
		for i, s := range filter.Statuses {
			if s == m.app.Filters().Status {
				cur = i
			}
		}
		return m.switchStatus(filter.Statuses[(cur+1)%len(filter.Statuses)])

	case key.Matches(msg, m.keys.NextChip):
		m.app.CycleCategory(1)
		m.cursor = 0
		return m, m.rendered(true)
	case key.Matches(msg, m.keys.PrevChip):
		m.app.CycleCategory(-1)
		m.cursor = 0
		return m, m.rendered(true)

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.app.Filters().Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Add):
		m.form = newGoalForm(nil, m.app.Categories(), m.formWidth())
		m.mode = modeForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if g := m.selected(); g != nil {
			m.form = newGoalForm(g, m.app.Categories(), m.formWidth())
			m.mode = modeForm
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.ExternalEdit):
		if g := m.selected(); g != nil {
			return m, m.openEditor(g)
		}

	case key.Matches(msg, m.keys.Toggle):
		g := m.selected()
		if g == nil {
			break
		}
		if !g.Completed {
			m.confirm = pendingConfirm{kind: confirmComplete, id: g.ID, title: g.Title}
			m.mode = modeConfirm
			break
		}
		if _, err := m.app.Reopen(g.ID); err != nil {
			m.setError(err)
			break
		}
		m.setStatus("Marked active: " + g.Title)
		return m, m.rendered(true)

	case key.Matches(msg, m.keys.Delete):
		if g := m.selected(); g != nil {
			m.confirm = pendingConfirm{kind: confirmDelete, id: g.ID, title: g.Title}
			m.mode = modeConfirm
		}

	case key.Matches(msg, m.keys.Review):
		if err := m.app.StartReview(); err != nil {
			m.setError(err)
			break
		}
		m.mode = modeReview

	case key.Matches(msg, m.keys.Settings):
		m.mode = modeSettings
		m.setting = settingAutoExport

	case key.Matches(msg, m.keys.Stats):
		m.mode = modeStats

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp

	case key.Matches(msg, m.keys.Export):
		path, err := m.app.Export(m.opts.Context)
		if err != nil {
			m.setError(err)
			break
		}
		m.setStatus("Exported to " + path)

	case key.Matches(msg, m.keys.Import):
		m.mode = modeImport
		m.importInput.Reset()
		return m, m.importInput.Focus()

	case key.Matches(msg, m.keys.Print):
		path, err := m.app.Print(m.opts.Context)
		if err != nil {
			m.setError(err)
			break
		}
		m.setStatus("Report written to " + path)

	case key.Matches(msg, m.keys.Reload):
		if err := m.app.Reload(); err != nil {
			m.setError(err)
			break
		}
		m.clampCursor()
		m.setStatus("Reloaded")
		return m, m.rendered(true)
	}

	return m, nil
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.clearSearch()

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Exit search input but keep filter active
		m.mode = modeList
		m.search.Blur()
		seq := m.app.QueueSearch(m.search.Value())
		if m.app.ApplySearch(seq) {
			m.cursor = 0
			return m, m.rendered(true)
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	seq := m.app.QueueSearch(m.search.Value())
	return m, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	}))
}

func (m Model) clearSearch() (tea.Model, tea.Cmd) {
	m.mode = modeList
	m.search.Blur()
	m.search.SetValue("")
	m.app.SetSearch("")
	m.cursor = 0
	return m, m.rendered(true)
}

func (m Model) switchStatus(st filter.Status) (tea.Model, tea.Cmd) {
	m.app.SetStatus(st)
	m.cursor = 0
	return m, m.rendered(true)
}

func (m Model) handleForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f, cmd, action := m.form.update(msg)
	m.form = f
	switch action {
	case formCancel:
		m.mode = modeList
		return m, nil
	case formSubmit:
		return m.submitForm()
	}
	return m, cmd
}

// submitForm saves the form. Photos are compressed off the event loop
// first; the save happens when photosCompressedMsg arrives.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	var base store.Input
	if m.form.editID != "" {
		g, err := m.app.Get(m.form.editID)
		if err != nil {
			m.mode = modeList
			m.setError(err)
			return m, nil
		}
		base = g.Input()
	}
	in := m.form.input(base)

	paths := m.form.photoPaths()
	if len(paths) == 0 {
		return m.saveForm(in)
	}
	if strings.TrimSpace(in.Title) == "" {
		return m, m.form.fail(&store.ValidationError{Field: "title", Message: "enter a goal"}, fieldTitle)
	}
	for i, p := range paths {
		if expanded, err := homedir.Expand(p); err == nil {
			paths[i] = expanded
		}
	}
	m.setStatus(fmt.Sprintf("Compressing %d photos…", len(paths)))
	a, ctx := m.app, m.opts.Context
	return m, func() tea.Msg {
		urls, err := a.CompressPhotos(ctx, paths)
		return photosCompressedMsg{in: in, urls: urls, err: err}
	}
}

func (m Model) saveForm(in store.Input) (tea.Model, tea.Cmd) {
	var (
		g   *store.Goal
		err error
	)
	if m.form.editID != "" {
		g, err = m.app.Edit(m.form.editID, in)
	} else {
		g, err = m.app.Add(in)
	}
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return m, m.form.fail(err, fieldTitle)
		}
		if errors.Is(err, store.ErrNotFound) {
			m.mode = modeList
		}
		m.setError(err)
		return m, nil
	}

	m.mode = modeList
	if m.form.editID != "" {
		m.setStatus("Updated: " + g.Title)
	} else {
		m.setStatus("Added: " + g.Title)
	}
	cmd := m.rendered(true)
	m.selectGoal(g.ID)
	return m, cmd
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeList
		c := m.confirm
		var err error
		switch c.kind {
		case confirmComplete:
			_, err = m.app.Complete(c.id)
		case confirmDelete:
			err = m.app.Delete(c.id)
		}
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if c.kind == confirmDelete {
			m.setStatus("Deleted: " + c.title)
		} else {
			m.setStatus("Completed: " + c.title)
		}
		m.clampCursor()
		return m, m.rendered(true)
	case "n", "N", "esc":
		m.mode = modeList
	}
	return m, nil
}

func (m Model) handleImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.importInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeList
		m.importInput.Blur()
		path := strings.TrimSpace(m.importInput.Value())
		if path == "" {
			return m, nil
		}
		if expanded, err := homedir.Expand(path); err == nil {
			path = expanded
		}
		return m, readFile(path)
	}
	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			err = fmt.Errorf("reading import: %w", err)
		}
		return importReadMsg{path: path, data: data, err: err}
	}
}

func (m Model) handleReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.app.Review()
	switch {
	case key.Matches(msg, m.reviewKeys.Stop):
		r.Stop()
		m.mode = modeList
	case key.Matches(msg, m.reviewKeys.Next):
		r.Next()
	case key.Matches(msg, m.reviewKeys.Prev):
		r.Prev()
	case key.Matches(msg, m.reviewKeys.Photo):
		r.CyclePhoto()
	case key.Matches(msg, m.reviewKeys.Faster), key.Matches(msg, m.reviewKeys.Slower):
		cur := int(r.Interval() / time.Second)
		secs := review.NextPreset(cur, key.Matches(msg, m.reviewKeys.Slower))
		gen := r.SetAutoAdvance(secs)
		if secs == 0 {
			m.setStatus("Auto-advance off")
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Auto-advance every %ds", secs))
		return m, m.reviewTick(gen)
	}
	return m, nil
}

func (m Model) reviewTick(gen int) tea.Cmd {
	d := m.app.Review().Interval()
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return reviewTickMsg{gen: gen} })
}

func (m Model) handleSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Settings), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	case key.Matches(msg, m.keys.Up):
		m.setting = (m.setting + settingCount - 1) % settingCount
	case key.Matches(msg, m.keys.Down):
		m.setting = (m.setting + 1) % settingCount
	case msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Toggle):
		switch m.setting {
		case settingAutoExport:
			st, err := m.app.AutoExportStatus()
			if err == nil {
				err = m.app.SetAutoExport(!st.Enabled)
			}
			if err != nil {
				m.setError(err)
			}
		case settingTheme:
			t, err := m.app.ToggleTheme()
			if err != nil {
				m.setError(err)
				break
			}
			m.applyTheme(t)
		}
	case key.Matches(msg, m.keys.Export):
		path, err := m.app.Export(m.opts.Context)
		if err != nil {
			m.setError(err)
			break
		}
		m.setStatus("Exported to " + path)
	}
	return m, nil
}

// selected returns the goal under the cursor.
func (m Model) selected() *store.Goal {
	d := m.app.Display()
	if m.cursor < 0 || m.cursor >= len(d.Items) {
		return nil
	}
	return d.Items[m.cursor].Goal
}

// selectGoal moves the cursor to id, loading pages until it is shown.
func (m *Model) selectGoal(id string) {
	for {
		for i, it := range m.app.Display().Items {
			if it.Goal.ID == id {
				m.cursor = i
				return
			}
		}
		if !m.app.LoadMore() {
			return
		}
	}
}

func (m *Model) clampCursor() {
	n := m.app.Display().Shown()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// rendered starts the staggered entrance of newly drawn cards and loads
// more pages while the sentinel is on screen. full means the display was
// redrawn from scratch.
func (m *Model) rendered(full bool) tea.Cmd {
	if full {
		m.revealFrom = 0
	}
	m.revealStart = m.opts.Now()
	m.revealGen++
	m.loadVisiblePages()
	return m.revealTick()
}

// fillViewport loads more pages while the sentinel row is on screen.
func (m *Model) fillViewport() tea.Cmd {
	before := m.app.Display().Shown()
	m.loadVisiblePages()
	if m.app.Display().Shown() == before {
		return nil
	}
	m.revealFrom = before
	m.revealStart = m.opts.Now()
	m.revealGen++
	return m.revealTick()
}

func (m *Model) loadVisiblePages() {
	for m.sentinelVisible() {
		if !m.app.LoadMore() {
			return
		}
	}
}

func (m Model) sentinelVisible() bool {
	d := m.app.Display()
	if !d.Sentinel || m.height == 0 {
		return false
	}
	start, end := scrollWindow(d.Shown()+1, m.cursor, m.listHeight())
	return d.Shown() >= start && d.Shown() < end
}

func (m Model) revealing() bool {
	elapsed := m.opts.Now().Sub(m.revealStart)
	for _, it := range m.app.Display().Items[m.revealFrom:] {
		if it.Delay > elapsed {
			return true
		}
	}
	return false
}

func (m Model) revealTick() tea.Cmd {
	if !m.revealing() {
		return nil
	}
	gen := m.revealGen
	return tea.Tick(revealStep, func(time.Time) tea.Msg { return revealTickMsg{gen: gen} })
}

// revealed reports whether the card at index has finished its entrance.
func (m Model) revealed(index int, delay time.Duration) bool {
	return index < m.revealFrom || m.opts.Now().Sub(m.revealStart) >= delay
}

func (m *Model) applyTheme(t app.Theme) {
	m.theme = t
	m.styles = NewStyles(t)
	m.glamourRenderer = nil
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width or theme changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width && m.glamourTheme == m.theme {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(string(m.theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	m.glamourTheme = m.theme
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTimeout = m.opts.Now().Add(statusDuration)
}

func (m *Model) setError(err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg = "That goal no longer exists"
	case errors.Is(err, review.ErrEmptySet):
		msg = "No active goals to review here"
	case errors.Is(err, app.ErrNothingToExport):
		msg = "Nothing to export yet"
	}
	m.statusMsg = msg
	m.statusErr = true
	m.statusTimeout = m.opts.Now().Add(statusDuration)
}

func (m *Model) openEditor(g *store.Goal) tea.Cmd {
	path, err := store.WriteEditorFile(g)
	if err != nil {
		m.setError(err)
		return nil
	}
	id := g.ID
	return tea.ExecProcess(store.EditorCommand(path), func(err error) tea.Msg {
		return EditorFinishedMsg{ID: id, Path: path, Err: err}
	})
}

func (m Model) finishEditor(msg EditorFinishedMsg) (tea.Model, tea.Cmd) {
	defer os.Remove(msg.Path)
	if msg.Err != nil {
		m.setError(fmt.Errorf("editor: %w", msg.Err))
		return m, nil
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	g, err := m.app.Get(msg.ID)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	in, err := store.ParseFrontmatter(string(data), g)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	g, err = m.app.Edit(msg.ID, in)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.setStatus("Updated: " + g.Title)
	cmd := m.rendered(true)
	m.selectGoal(g.ID)
	return m, cmd
}
