package store

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultEditor is used when EDITOR is unset or blank.
const DefaultEditor = "vim"

// EditorCommand builds the $EDITOR invocation for path. EDITOR may carry
// arguments, e.g. "code --wait".
func EditorCommand(path string) *exec.Cmd {
	parts := strings.Fields(os.Getenv("EDITOR"))
	if len(parts) == 0 {
		parts = []string{DefaultEditor}
	}
	return exec.Command(parts[0], append(parts[1:], path)...)
}

// WriteEditorFile writes g as front matter to a new temp file and returns
// its path. The caller removes the file.
func WriteEditorFile(g *Goal) (string, error) {
	content, err := SerializeFrontmatter(g)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "goalpost-*.md")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), nil
}
