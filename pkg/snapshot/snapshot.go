// Package snapshot reads and writes the versioned JSON export file.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/stefanpenner/goalpost/pkg/store"
)

const (
	// Version is written into every export.
	Version = "1.3.0"

	// MIME types handed to the file saver.
	MIMEJSON = "application/json"
	MIMEText = "text/plain;charset=utf-8"

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// Snapshot is the export file layout.
type Snapshot struct {
	Version    string       `json:"version"`
	ExportDate string       `json:"exportDate"`
	AutoExport bool         `json:"autoExport,omitempty"`
	Goals      []store.Goal `json:"goals"`
}

// New builds a snapshot of goals taken at now.
func New(goals []*store.Goal, auto bool, now time.Time) Snapshot {
	s := Snapshot{
		Version:    Version,
		ExportDate: now.UTC().Format(isoMillis),
		AutoExport: auto,
		Goals:      make([]store.Goal, 0, len(goals)),
	}
	for _, g := range goals {
		s.Goals = append(s.Goals, *g)
	}
	return s
}

// Encode writes the snapshot as JSON indented by two spaces.
func Encode(w io.Writer, goals []*store.Goal, auto bool, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(New(goals, auto, now)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Marshal returns the encoded snapshot.
func Marshal(goals []*store.Goal, auto bool, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, goals, auto, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses an export file. Only the goals array is required; other
// fields are optional and unknown fields are ignored.
func Decode(r io.Reader) (*Snapshot, error) {
	var raw struct {
		Version    string          `json:"version"`
		ExportDate string          `json:"exportDate"`
		AutoExport bool            `json:"autoExport"`
		Goals      json.RawMessage `json:"goals"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, &store.FormatError{Source: "import", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &store.FormatError{Source: "import", Err: fmt.Errorf("unexpected data after export object")}
	}

	body := bytes.TrimSpace(raw.Goals)
	if len(body) == 0 || body[0] != '[' {
		return nil, &store.FormatError{Source: "import", Err: fmt.Errorf("goals array missing")}
	}

	s := &Snapshot{Version: raw.Version, ExportDate: raw.ExportDate, AutoExport: raw.AutoExport}
	if err := json.Unmarshal(body, &s.Goals); err != nil {
		return nil, &store.FormatError{Source: "import", Err: err}
	}
	return s, nil
}

// Filename returns the export file name for now, such as
// goals_2026-03-01.json or goals_auto_2026-03-01.json.
func Filename(now time.Time, auto bool) string {
	if auto {
		return "goals_auto_" + datestamp(now) + ".json"
	}
	return "goals_" + datestamp(now) + ".json"
}

// ReportFilename returns the printable report file name for now.
func ReportFilename(now time.Time) string {
	return "goals_" + datestamp(now) + ".txt"
}

func datestamp(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
