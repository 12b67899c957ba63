package store

import (
	"strings"
	"time"
)

// Goal is a single tracked goal. JSON field names match the export format,
// so files written by earlier versions of the app import unchanged.
type Goal struct {
	ID          string   `json:"id"`
	Title       string   `json:"goal"`
	Reason      string   `json:"reason"`
	Category    string   `json:"category"`
	Photos      []string `json:"photos"` // data URLs; the first is the cover
	Completed   bool     `json:"completed"`
	CompletedAt *int64   `json:"completedAt"` // epoch ms, nil unless Completed
	CreatedAt   int64    `json:"createdAt,omitempty"`
	UpdatedAt   int64    `json:"updatedAt,omitempty"`
}

// Input holds the user-editable fields of a goal.
type Input struct {
	Title    string
	Reason   string
	Category string
	Photos   []string
}

// Normalize trims the text fields.
func (in Input) Normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Reason = strings.TrimSpace(in.Reason)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

// IsComplete returns true if the goal is marked complete.
func (g *Goal) IsComplete() bool {
	return g.Completed
}

// Uncategorized reports whether the goal has no category.
func (g *Goal) Uncategorized() bool {
	return g.Category == ""
}

// HasPhotos reports whether the goal has at least one photo.
func (g *Goal) HasPhotos() bool {
	return len(g.Photos) > 0
}

// Created returns the creation time, or the zero time when unknown.
func (g *Goal) Created() time.Time {
	if g.CreatedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(g.CreatedAt)
}

// CompletedTime returns when the goal was completed, if it is.
func (g *Goal) CompletedTime() (time.Time, bool) {
	if g.CompletedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*g.CompletedAt), true
}

// Clone returns a deep copy of the goal.
func (g *Goal) Clone() *Goal {
	c := *g
	if g.Photos != nil {
		c.Photos = append([]string(nil), g.Photos...)
	}
	if g.CompletedAt != nil {
		at := *g.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// Input returns the editable fields of the goal.
func (g *Goal) Input() Input {
	return Input{
		Title:    g.Title,
		Reason:   g.Reason,
		Category: g.Category,
		Photos:   append([]string(nil), g.Photos...),
	}
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
