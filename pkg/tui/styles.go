package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/goalpost/pkg/app"
)

// Palette is the set of colors a theme draws with.
type Palette struct {
	Accent      lipgloss.Color
	Green       lipgloss.Color
	Blue        lipgloss.Color
	Red         lipgloss.Color
	Yellow      lipgloss.Color
	Cyan        lipgloss.Color
	Muted       lipgloss.Color
	Dim         lipgloss.Color
	Text        lipgloss.Color
	TextStrong  lipgloss.Color
	SelectionBg lipgloss.Color
	SearchBg    lipgloss.Color
	OnAccent    lipgloss.Color
}

var (
	darkPalette = Palette{
		Accent:      lipgloss.Color("#7D56F4"),
		Green:       lipgloss.Color("#25A065"),
		Blue:        lipgloss.Color("#4285F4"),
		Red:         lipgloss.Color("#E05252"),
		Yellow:      lipgloss.Color("#E5C07B"),
		Cyan:        lipgloss.Color("#56B6C2"),
		Muted:       lipgloss.Color("#626262"),
		Dim:         lipgloss.Color("#404040"),
		Text:        lipgloss.Color("#D0D0D0"),
		TextStrong:  lipgloss.Color("#FFFFFF"),
		SelectionBg: lipgloss.Color("#2D3B4D"),
		SearchBg:    lipgloss.Color("#2E2545"),
		OnAccent:    lipgloss.Color("#FFFFFF"),
	}

	lightPalette = Palette{
		Accent:      lipgloss.Color("#5A3FC0"),
		Green:       lipgloss.Color("#1B7F4F"),
		Blue:        lipgloss.Color("#1A5FD0"),
		Red:         lipgloss.Color("#C0392B"),
		Yellow:      lipgloss.Color("#9A6B00"),
		Cyan:        lipgloss.Color("#167C88"),
		Muted:       lipgloss.Color("#808080"),
		Dim:         lipgloss.Color("#C8C8C8"),
		Text:        lipgloss.Color("#303030"),
		TextStrong:  lipgloss.Color("#000000"),
		SelectionBg: lipgloss.Color("#DDE6F5"),
		SearchBg:    lipgloss.Color("#E9E2FB"),
		OnAccent:    lipgloss.Color("#FFFFFF"),
	}
)

// PaletteFor returns the colors for a theme.
func PaletteFor(t app.Theme) Palette {
	if t == app.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Styles holds every lipgloss style the view uses, derived from a palette.
type Styles struct {
	Palette Palette

	Header      lipgloss.Style
	HeaderCount lipgloss.Style
	Footer      lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	ActiveChip  lipgloss.Style
	Chip        lipgloss.Style

	Selected   lipgloss.Style
	Normal     lipgloss.Style
	Complete   lipgloss.Style
	Incomplete lipgloss.Style
	Category   lipgloss.Style
	Sentinel   lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
	ModalLabel lipgloss.Style
	ModalValue lipgloss.Style

	InputPrompt lipgloss.Style
	FieldLabel  lipgloss.Style
	FieldFocus  lipgloss.Style

	SearchBar       lipgloss.Style
	SearchChar      lipgloss.Style
	SearchCount     lipgloss.Style
	EmptyTitle      lipgloss.Style
	ProgressFilled  lipgloss.Style
	ProgressPending lipgloss.Style
}

// NewStyles builds the styles for a theme.
func NewStyles(t app.Theme) Styles {
	p := PaletteFor(t)
	return Styles{
		Palette: p,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		HeaderCount: lipgloss.NewStyle().
			Foreground(p.Muted),
		Footer: lipgloss.NewStyle().
			Foreground(p.Muted),
		Status: lipgloss.NewStyle().
			Foreground(p.Cyan),
		Error: lipgloss.NewStyle().
			Foreground(p.Red),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.OnAccent).
			Background(p.Accent).
			Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		ActiveChip: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Underline(true),
		Chip: lipgloss.NewStyle().
			Foreground(p.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextStrong).
			Background(p.SelectionBg),
		Normal: lipgloss.NewStyle().
			Foreground(p.Text),
		Complete: lipgloss.NewStyle().
			Foreground(p.Green),
		Incomplete: lipgloss.NewStyle().
			Foreground(p.Text),
		Category: lipgloss.NewStyle().
			Foreground(p.Yellow),
		Sentinel: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.Muted),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		ModalLabel: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(14),
		ModalValue: lipgloss.NewStyle().
			Foreground(p.TextStrong),

		InputPrompt: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		FieldLabel: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(10),
		FieldFocus: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Width(10),

		SearchBar: lipgloss.NewStyle().
			Foreground(p.TextStrong),
		SearchChar: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Background(p.SearchBg),
		SearchCount: lipgloss.NewStyle().
			Foreground(p.Muted),
		EmptyTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		ProgressFilled: lipgloss.NewStyle().
			Foreground(p.Green),
		ProgressPending: lipgloss.NewStyle().
			Foreground(p.Dim),
	}
}

// Status icons
const (
	IconComplete   = "✓"
	IconIncomplete = "○"
	IconPhoto      = "▣"
	IconCursor     = "›"
)
