package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/goalpost/pkg/filter"
	"github.com/stefanpenner/goalpost/pkg/report"
	"github.com/stefanpenner/goalpost/pkg/store"
)

const minWidth = 40
const minHeight = 10

// header (title, tabs, chips, separator) and footer (separator, help)
const (
	headerLines = 4
	footerLines = 2
)

// View implements tea.Model.
func (m Model) View() string {
	w, h := m.size()

	switch m.mode {
	case modeHelp:
		return placeOverlay(m.renderHelpModal(), w, h)
	case modeConfirm:
		return placeOverlay(m.renderConfirmModal(), w, h)
	case modeForm:
		return placeOverlay(m.form.view(m.styles), w, h)
	case modeImport:
		return placeOverlay(m.renderImportModal(), w, h)
	case modeSettings:
		return placeOverlay(m.renderSettingsModal(), w, h)
	case modeStats:
		return placeOverlay(m.renderStatsModal(), w, h)
	case modeReview:
		return placeOverlay(m.renderReview(w, h), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderChips(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	if m.searchActive() {
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := m.listHeight()
	leftWidth := w - m.detailWidth() - 1
	left := m.renderList(leftWidth, contentHeight)
	right := m.renderDetail(m.detailWidth(), contentHeight)

	sep := m.styles.Footer.Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(left, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(right, i, m.detailWidth()))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) size() (int, int) {
	return max(m.width, minWidth), max(m.height, minHeight)
}

func (m Model) searchActive() bool {
	return m.mode == modeSearch || m.app.Filters().Search != ""
}

// listHeight is the number of rows available to the card list.
func (m Model) listHeight() int {
	_, h := m.size()
	n := h - headerLines - footerLines
	if m.searchActive() {
		n--
	}
	return max(n, 1)
}

func (m Model) detailWidth() int {
	w, _ := m.size()
	return max(w*3/5, 20)
}

func (m Model) formWidth() int {
	w, _ := m.size()
	return min(w-12, 60)
}

// scrollWindow returns the [start, end) range of n rows to show so that
// cursor stays roughly centered in height rows.
func scrollWindow(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := max(cursor-height/2, 0)
	end := start + height
	if end > n {
		end = n
		start = max(end-height, 0)
	}
	return start, end
}

func (m Model) renderHeader(width int) string {
	title := m.styles.Header.Render("Goalpost")

	st := m.app.Stats()
	stats := m.styles.HeaderCount.Render(fmt.Sprintf("%d/%d complete · %d%%", st.Completed, st.Total, st.Percent))

	// Status message
	status := ""
	if m.statusMsg != "" && m.opts.Now().Before(m.statusTimeout) {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.Error
		}
		status = style.Render(m.statusMsg) + "  "
	}

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(stats)-lipgloss.Width(status), 1)
	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderTabs() string {
	st := m.app.Stats()
	cur := m.app.Filters().Status
	labels := map[filter.Status]string{
		filter.StatusAll:       "All",
		filter.StatusActive:    "Active",
		filter.StatusCompleted: "Completed",
	}

	var tabs []string
	for _, s := range filter.Statuses {
		label := fmt.Sprintf("%s %d", labels[s], st.Count(s))
		if s == cur {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderChips(width int) string {
	var parts []string
	active := 0
	for i, c := range m.app.Chips() {
		label := fmt.Sprintf("%s %d", categoryLabel(c.Category), c.Count)
		if c.Active {
			active = i
			parts = append(parts, m.styles.ActiveChip.Render(label))
		} else {
			parts = append(parts, m.styles.Chip.Render(label))
		}
	}
	line := strings.Join(parts, "  ")
	if lipgloss.Width(line) <= width {
		return line
	}
	// Drop chips from the left until the active one fits.
	for active > 0 && lipgloss.Width(strings.Join(parts, "  ")) > width-2 {
		parts = parts[1:]
		active--
	}
	return m.styles.Chip.Render("‹ ") + strings.Join(parts, "  ")
}

func (m Model) renderSearchBar(width int) string {
	query := m.app.Filters().Search
	left := m.styles.SearchBar.Render(" / " + query)
	if m.mode == modeSearch {
		left = m.search.View()
	}

	countStr := ""
	if query != "" {
		countStr = m.styles.SearchCount.Render(fmt.Sprintf(" %d matches", m.app.Display().Total))
	}

	pad := max(width-lipgloss.Width(left)-lipgloss.Width(countStr), 1)
	return left + strings.Repeat(" ", pad) + countStr
}

func (m Model) renderList(width, height int) string {
	d := m.app.Display()
	if d.Empty != nil {
		return m.styles.EmptyTitle.Render(d.Empty.Title) + "\n" + m.styles.Footer.Render(d.Empty.Hint)
	}

	rows := d.Shown()
	if d.Sentinel {
		rows++
	}
	start, end := scrollWindow(rows, m.cursor, height)

	query := m.app.Filters().Search
	var lines []string
	for i := start; i < end; i++ {
		if i == d.Shown() {
			lines = append(lines, m.styles.Sentinel.Render(fmt.Sprintf("  loading more… (%d of %d)", d.Shown(), d.Total)))
			continue
		}
		it := d.Items[i]
		if !m.revealed(it.Index, it.Delay) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, m.renderCard(it.Goal, it.Content, i == m.cursor, query, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCard(g *store.Goal, content string, selected bool, query string, width int) string {
	icon := m.styles.Incomplete.Render(IconIncomplete)
	if g.Completed {
		icon = m.styles.Complete.Render(IconComplete)
	}
	cursor := " "
	if selected {
		cursor = IconCursor
	}

	text := truncate(content, width-4)
	row := m.styles.Normal
	if g.Completed {
		row = row.Foreground(m.styles.Palette.Muted)
	}
	if selected {
		row = m.styles.Selected
	}
	var body string
	if query != "" {
		body = highlightMatch(text, query, m.styles.SearchChar, row)
	} else {
		body = row.Render(text)
	}
	return cursor + icon + " " + body
}

func (m *Model) renderDetail(width, height int) string {
	g := m.selected()
	if g == nil {
		return ""
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", g.Title)
	var meta []string
	if g.Category != "" {
		meta = append(meta, "**Category:** "+g.Category)
	}
	if g.Completed {
		meta = append(meta, "**Status:** completed")
		if g.CompletedAt != nil {
			meta = append(meta, "**Done:** "+time.UnixMilli(*g.CompletedAt).Format("Jan 2, 2006"))
		}
	} else {
		meta = append(meta, "**Status:** active")
	}
	if g.CreatedAt > 0 {
		meta = append(meta, "**Added:** "+time.UnixMilli(g.CreatedAt).Format("Jan 2, 2006"))
	}
	md.WriteString(strings.Join(meta, " · "))
	md.WriteString("\n\n")
	if g.Reason != "" {
		for _, line := range strings.Split(g.Reason, "\n") {
			md.WriteString("> " + line + "\n")
		}
	}

	var out string
	if r := m.getGlamourRenderer(width - 2); r != nil {
		rendered, err := r.Render(md.String())
		if err == nil {
			out = strings.TrimRight(rendered, "\n")
		}
	}
	if out == "" {
		out = md.String()
	}

	if len(g.Photos) > 0 {
		rows := max(height-lipgloss.Height(out)-2, 0)
		if thumb, err := m.thumbs.get(g.ID, 0, g.Photos[0], width-4, min(rows, 12)); err == nil && thumb != "" {
			out += "\n\n" + indent(thumb, 2)
		}
		if len(g.Photos) > 1 {
			out += "\n" + m.styles.Footer.Render(fmt.Sprintf("  %s %d photos", IconPhoto, len(g.Photos)))
		}
	}
	return out
}

func indent(block string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	if m.mode == modeSearch {
		help = "type to search  enter/↓ keep filter  esc clear"
	} else if m.app.Filters().Search != "" {
		help = "esc clear search  ↑↓ nav  / edit search"
	}
	return m.styles.Footer.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(m.styles.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(m.styles.Palette.Blue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(m.styles.Palette.Text)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ModalTitle.Render("Review"))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.reviewKeys.ShortHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("Press Esc or ? to close"))

	return m.styles.Modal.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	var b strings.Builder

	title, question := "Complete Goal", "Mark '%s' as completed?"
	if m.confirm.kind == confirmDelete {
		title, question = "Delete Goal", "Delete '%s'? This cannot be undone."
	}
	b.WriteString(m.styles.ModalTitle.Render(title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, question+"\n\n", truncate(m.confirm.title, 40))
	b.WriteString(lipgloss.NewStyle().Foreground(m.styles.Palette.Green).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(m.styles.Palette.Red).Render("[n]") + " No")

	return m.styles.Modal.Render(b.String())
}

func (m Model) renderImportModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Import Goals"))
	b.WriteString("\n\n")
	b.WriteString(m.importInput.View())
	b.WriteString("\n\n")
	if m.opts.ExportDir != "" {
		b.WriteString(m.styles.Footer.Render("Exports live in " + m.opts.ExportDir))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render("Existing goals are kept. enter import  esc cancel"))
	return m.styles.Modal.Render(b.String())
}

func (m Model) renderSettingsModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Settings"))
	b.WriteString("\n\n")

	st, err := m.app.AutoExportStatus()
	onOff := "off"
	if st.Enabled {
		onOff = "on"
	}

	row := func(idx int, label, value string) {
		cursor := "  "
		if m.setting == idx {
			cursor = m.styles.InputPrompt.Render(IconCursor + " ")
		}
		b.WriteString(cursor + m.styles.ModalLabel.Render(label) + m.styles.ModalValue.Render(value) + "\n")
	}
	row(settingAutoExport, "Auto-export", onOff)
	row(settingTheme, "Theme", string(m.theme))

	b.WriteString("\n")
	info := func(label, value string) {
		b.WriteString("  " + m.styles.ModalLabel.Render(label) + m.styles.Footer.Render(value) + "\n")
	}
	if err != nil {
		b.WriteString(m.styles.Error.Render(err.Error()) + "\n")
	} else {
		last := "never"
		if st.Exported {
			last = st.LastExport.Format("Jan 2, 2006")
		}
		info("Last export", last)
		if st.Enabled {
			info("Next export", fmt.Sprintf("in %d days", st.DaysLeft))
		}
	}
	if m.opts.ExportDir != "" {
		info("Directory", m.opts.ExportDir)
	}
	if m.opts.StoreDir != "" {
		info("Data", m.opts.StoreDir)
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("↑↓ select  enter toggle  x export now  esc close"))
	return m.styles.Modal.Render(b.String())
}

func (m Model) renderStatsModal() string {
	var b strings.Builder
	bd := m.app.Breakdown()

	b.WriteString(m.styles.ModalTitle.Render("Statistics"))
	b.WriteString("\n\n")

	line := func(label string, value any) {
		b.WriteString(m.styles.ModalLabel.Render(label) + m.styles.ModalValue.Render(fmt.Sprint(value)) + "\n")
	}
	line("Total", bd.Total)
	line("Active", bd.Active)
	line("Completed", bd.Completed)
	b.WriteString(m.progressBar(bd.Percent, 30) + fmt.Sprintf(" %d%%\n", bd.Percent))

	if len(bd.Categories) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.ModalTitle.Render("By category"))
		b.WriteString("\n")
		for _, c := range bd.Categories {
			name := c.Name
			if name == "" {
				name = report.Uncategorized
			}
			line(truncate(name, 13), fmt.Sprintf("%d/%d", c.Completed, c.Total))
		}
	}

	if len(bd.RecentlyDone) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.ModalTitle.Render("Recently completed"))
		b.WriteString("\n")
		for _, g := range bd.RecentlyDone {
			when := time.UnixMilli(*g.CompletedAt).Format("Jan 2")
			b.WriteString(m.styles.Complete.Render(IconComplete) + " " + truncate(g.Title, 36) + m.styles.Footer.Render("  "+when) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("Press Esc to close"))
	return m.styles.Modal.Render(b.String())
}

func (m Model) progressBar(percent, width int) string {
	filled := percent * width / 100
	return m.styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		m.styles.ProgressPending.Render(strings.Repeat("░", width-filled))
}

func (m *Model) renderReview(w, h int) string {
	r := m.app.Review()
	g := r.Current()
	if g == nil {
		return m.styles.Modal.Render("Nothing to review")
	}
	width := min(w-8, 72)

	var b strings.Builder
	pos, total := r.Position()
	auto := "manual"
	if iv := r.Interval(); iv > 0 {
		auto = fmt.Sprintf("every %ds", int(iv/time.Second))
	}
	b.WriteString(m.styles.Footer.Render(fmt.Sprintf("Goal %d of %d · %s", pos, total, auto)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalTitle.Render(lipgloss.NewStyle().Width(width).Render(g.Title)))
	b.WriteString("\n")
	if g.Category != "" {
		b.WriteString(m.styles.Category.Render("#" + g.Category))
		b.WriteString("\n")
	}
	if g.Reason != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Normal.Width(width).Render(g.Reason))
		b.WriteString("\n")
	}

	if n := len(g.Photos); n > 0 {
		idx := r.PhotoIndex()
		rows := max(h-lipgloss.Height(b.String())-10, 2)
		if thumb, err := m.thumbs.get(g.ID, idx, g.Photos[idx], width, min(rows, 16)); err == nil {
			b.WriteString("\n")
			b.WriteString(thumb)
			b.WriteString("\n")
		}
		if n > 1 {
			b.WriteString(m.styles.Footer.Render(fmt.Sprintf("%s photo %d of %d", IconPhoto, idx+1, n)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.reviewKeys.ShortHelp()))
	return m.styles.Modal.Render(b.String())
}

// highlightMatch splits name into before/match/after and styles the match portion
// with charStyle, and the rest with rowStyle. The match is case-insensitive.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	lower := strings.ToLower(name)
	idx := strings.Index(lower, strings.ToLower(query))
	if idx < 0 || len(lower) != len(name) {
		return rowStyle.Render(name)
	}
	before := name[:idx]
	match := name[idx : idx+len(query)]
	after := name[idx+len(query):]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += charStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := max((height-len(modalLines))/2, 0)
	leftPadding := max((width-lipgloss.Width(modalLines[0]))/2, 0)

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
