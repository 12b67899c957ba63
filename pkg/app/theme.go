package app

import "fmt"

// ThemeKey holds the theme preference.
const ThemeKey = "goals_app_theme"

// Theme is the color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (use dark or light)", s)
}

// Theme returns the stored theme. Anything other than "dark" is light.
func (a *App) Theme() Theme {
	v, _, err := a.kv.Get(ThemeKey)
	if err != nil || Theme(v) != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// SetTheme stores the theme preference.
func (a *App) SetTheme(t Theme) error {
	if err := a.kv.Set(ThemeKey, string(t)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// ToggleTheme switches between dark and light and returns the new theme.
func (a *App) ToggleTheme() (Theme, error) {
	next := ThemeDark
	if a.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, a.SetTheme(next)
}
