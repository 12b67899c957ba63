package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		want   []string
	}{
		{"unset", "", []string{DefaultEditor, "/tmp/x.md"}},
		{"blank", "   ", []string{DefaultEditor, "/tmp/x.md"}},
		{"plain", "nano", []string{"nano", "/tmp/x.md"}},
		{"with args", "code  --wait", []string{"code", "--wait", "/tmp/x.md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			c := EditorCommand("/tmp/x.md")
			assert.Equal(t, tt.want, c.Args)
		})
	}
}

func TestWriteEditorFile(t *testing.T) {
	g := &Goal{ID: "g1", Title: "Learn Go", Reason: "fun", Category: "Skills", Photos: []string{}}

	path, err := WriteEditorFile(g)
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	in, err := ParseFrontmatter(string(data), g)
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", in.Title)
	assert.Equal(t, "Skills", in.Category)
	assert.Equal(t, "fun", in.Reason)
}
