package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the data and config directories.
const AppName = "goalpost"

// DefaultDataDir returns the OS-appropriate default data directory.
//
//   - macOS:   ~/Library/Application Support/goalpost
//   - Linux:   $XDG_DATA_HOME/goalpost (fallback ~/.local/share/goalpost)
//   - Windows: %LOCALAPPDATA%\goalpost (fallback %APPDATA%\goalpost)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, AppName)
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, AppName)
		}
		return filepath.Join(home, AppName)
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, AppName)
		}
		return filepath.Join(home, ".local", "share", AppName)
	}
}
