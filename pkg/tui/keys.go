package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	AllTab       key.Binding
	ActiveTab    key.Binding
	DoneTab      key.Binding
	NextTab      key.Binding
	NextChip     key.Binding
	PrevChip     key.Binding
	Search       key.Binding
	Add          key.Binding
	Edit         key.Binding
	ExternalEdit key.Binding
	Toggle       key.Binding
	Delete       key.Binding
	Review       key.Binding
	Settings     key.Binding
	Stats        key.Binding
	Export       key.Binding
	Import       key.Binding
	Print        key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		AllTab: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		ActiveTab: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "active"),
		),
		DoneTab: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "completed"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		NextChip: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next category"),
		),
		PrevChip: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev category"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add goal"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		ExternalEdit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "$EDITOR"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Review: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "review"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Stats: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stats"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
		Print: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "print"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReviewKeyMap holds the bindings active while the review overlay is open.
type ReviewKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Photo  key.Binding
	Faster key.Binding
	Slower key.Binding
	Stop   key.Binding
}

// DefaultReviewKeyMap returns the review bindings.
func DefaultReviewKeyMap() ReviewKeyMap {
	return ReviewKeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("→/space", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "prev"),
		),
		Photo: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next photo"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "auto-advance"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		Stop: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "stop"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  1-3 tabs  [] category  / search  a add  e edit  space done  d delete  r review  s settings  ? help"
}

// ShortHelp returns the footer help text during review.
func (k ReviewKeyMap) ShortHelp() string {
	return "→/space next  ← prev  p photo  +/- auto-advance  esc stop"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down (loads more at the end)"},
		{"g / G", "Jump to top / bottom"},
		{"1/2/3", "All / Active / Completed"},
		{"tab", "Next status tab"},
		{"] / [", "Next / previous category"},
		{"/", "Search title, reason and category"},
		{"a", "Add goal"},
		{"e", "Edit goal"},
		{"E", "Edit in $EDITOR"},
		{"space", "Toggle complete (asks first)"},
		{"d", "Delete goal (with confirmation)"},
		{"r", "Review active goals as a slideshow"},
		{"s", "Settings: auto-export and theme"},
		{"S", "Statistics"},
		{"x", "Export to JSON"},
		{"i", "Import from a JSON file"},
		{"P", "Print report to a text file"},
		{"R", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
