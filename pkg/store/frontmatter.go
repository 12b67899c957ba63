package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// editable is the front matter written for $EDITOR. The reason is the
// markdown body below it.
type editable struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

// SerializeFrontmatter renders a goal as markdown with YAML front matter,
// for editing in an external editor.
func SerializeFrontmatter(g *Goal) (string, error) {
	yamlBytes, err := yaml.Marshal(editable{Title: g.Title, Category: g.Category})
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if g.Reason != "" {
		b.WriteString("\n")
		b.WriteString(g.Reason)
		if !strings.HasSuffix(g.Reason, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ParseFrontmatter reads an edited goal back. The photos of base are kept,
// since they cannot be edited as text.
func ParseFrontmatter(content string, base *Goal) (Input, error) {
	in := base.Input()
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		// No front matter, the whole file is the reason
		in.Reason = content
		return in.Normalize(), nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return Input{}, &FormatError{Source: "front matter", Err: fmt.Errorf("unclosed delimiter")}
	}

	var fm editable
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return Input{}, &FormatError{Source: "front matter", Err: err}
	}

	in.Title = fm.Title
	in.Category = fm.Category
	in.Reason = strings.TrimLeft(rest[idx+len("\n"+frontmatterDelimiter):], "\n")
	return in.Normalize(), nil
}
