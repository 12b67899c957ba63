package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stefanpenner/goalpost/pkg/kv"
)

const (
	// DataKey is the key-value slot holding the goal collection.
	DataKey = "goals_app_data"
	// CorruptKey keeps the raw bytes of a snapshot that failed to parse.
	CorruptKey = DataKey + ".corrupt"

	defaultAttempts = 3
	defaultBackoff  = 25 * time.Millisecond
)

// Store owns the ordered goal collection and writes the whole collection to
// the key-value store after every mutation.
type Store struct {
	kv       kv.Store
	goals    []*Goal
	now      func() time.Time
	newID    func() string
	attempts int
	backoff  time.Duration
	sleep    func(time.Duration)

	// synced is the payload last loaded from or written to DataKey.
	synced string

	// Recovered is set when the persisted snapshot could not be parsed and
	// the store started empty. The raw bytes are kept under CorruptKey.
	Recovered *FormatError
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides id generation.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithRetry sets how many times a write is attempted and the initial
// backoff between attempts. The backoff doubles after each failure.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Store) {
		if attempts < 1 {
			attempts = 1
		}
		s.attempts = attempts
		s.backoff = backoff
	}
}

// Open loads the collection from kvs. A missing collection starts empty. A
// corrupt one also starts empty, with Recovered set.
func Open(kvs kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		kv:       kvs,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the collection from the key-value store.
func (s *Store) Reload() error {
	raw, ok, err := s.kv.Get(DataKey)
	if err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}
	s.Recovered = nil
	s.goals = nil
	s.synced = raw
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	var loaded []*Goal
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		if backupErr := s.kv.Set(CorruptKey, raw); backupErr != nil {
			err = errors.Join(err, fmt.Errorf("keeping corrupt snapshot: %w", backupErr))
		}
		s.Recovered = &FormatError{Source: DataKey, Err: err}
		return nil
	}

	for _, g := range loaded {
		if g == nil {
			continue
		}
		if g.Photos == nil {
			g.Photos = []string{}
		}
		s.goals = append(s.goals, g)
	}
	return nil
}

// Changed reports whether the persisted collection differs from what this
// store last loaded or wrote, i.e. whether someone else has written it.
func (s *Store) Changed() (bool, error) {
	raw, _, err := s.kv.Get(DataKey)
	if err != nil {
		return false, fmt.Errorf("loading goals: %w", err)
	}
	return raw != s.synced, nil
}

// Goals returns the collection in insertion order. The goals are shared
// with the store and must be treated as read-only.
func (s *Store) Goals() []*Goal {
	out := make([]*Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Len returns the number of goals.
func (s *Store) Len() int {
	return len(s.goals)
}

// Get returns the goal with the given id.
func (s *Store) Get(id string) (*Goal, error) {
	idx := s.index(id)
	if idx < 0 {
		return nil, notFound(id)
	}
	return s.goals[idx], nil
}

// Create appends a new incomplete goal.
func (s *Store) Create(in Input) (*Goal, error) {
	in = in.Normalize()
	if err := validate(in); err != nil {
		return nil, err
	}

	g := &Goal{
		ID:        s.newID(),
		Title:     in.Title,
		Reason:    in.Reason,
		Category:  in.Category,
		Photos:    copyPhotos(in.Photos),
		CreatedAt: Millis(s.now()),
	}

	next := make([]*Goal, len(s.goals), len(s.goals)+1)
	copy(next, s.goals)
	next = append(next, g)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return g, nil
}

// Update replaces the editable fields of a goal and stamps UpdatedAt.
func (s *Store) Update(id string, in Input) (*Goal, error) {
	idx := s.index(id)
	if idx < 0 {
		return nil, notFound(id)
	}
	in = in.Normalize()
	if err := validate(in); err != nil {
		return nil, err
	}

	g := s.goals[idx].Clone()
	g.Title = in.Title
	g.Reason = in.Reason
	g.Category = in.Category
	g.Photos = copyPhotos(in.Photos)
	g.UpdatedAt = Millis(s.now())

	if err := s.commit(s.replaced(idx, g)); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes the goal with the given id.
func (s *Store) Delete(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return notFound(id)
	}
	next := make([]*Goal, 0, len(s.goals)-1)
	next = append(next, s.goals[:idx]...)
	next = append(next, s.goals[idx+1:]...)
	return s.commit(next)
}

// SetCompleted marks a goal complete (stamping CompletedAt) or reverts it
// (clearing CompletedAt). Setting the current state again changes nothing.
func (s *Store) SetCompleted(id string, done bool) (*Goal, error) {
	idx := s.index(id)
	if idx < 0 {
		return nil, notFound(id)
	}
	if s.goals[idx].Completed == done {
		return s.goals[idx], nil
	}

	g := s.goals[idx].Clone()
	g.Completed = done
	if done {
		at := Millis(s.now())
		g.CompletedAt = &at
	} else {
		g.CompletedAt = nil
	}

	if err := s.commit(s.replaced(idx, g)); err != nil {
		return nil, err
	}
	return g, nil
}

// MergeResult reports how many imported goals were added.
type MergeResult struct {
	Merged int
	Total  int
}

// MergeImport appends every imported goal whose id is not already present.
// Existing goals are never overwritten. Goals without an id get a fresh one.
// Goals without a title are skipped.
func (s *Store) MergeImport(imported []Goal) (MergeResult, error) {
	res := MergeResult{Total: len(imported)}

	seen := make(map[string]bool, len(s.goals)+len(imported))
	for _, g := range s.goals {
		seen[g.ID] = true
	}

	next := make([]*Goal, len(s.goals), len(s.goals)+len(imported))
	copy(next, s.goals)
	for i := range imported {
		g := imported[i].Clone()
		if g.ID == "" {
			g.ID = s.newID()
		}
		if seen[g.ID] || strings.TrimSpace(g.Title) == "" {
			continue
		}
		seen[g.ID] = true
		s.normalizeImported(g)
		next = append(next, g)
		res.Merged++
	}

	if res.Merged == 0 {
		return res, nil
	}
	if err := s.commit(next); err != nil {
		return MergeResult{Total: res.Total}, err
	}
	return res, nil
}

func (s *Store) normalizeImported(g *Goal) {
	if g.Photos == nil {
		g.Photos = []string{}
	}
	switch {
	case !g.Completed:
		g.CompletedAt = nil
	case g.CompletedAt == nil:
		at := g.CreatedAt
		if at == 0 {
			at = Millis(s.now())
		}
		g.CompletedAt = &at
	}
}

// commit persists next and, only if that succeeds, makes it current.
func (s *Store) commit(next []*Goal) error {
	if next == nil {
		next = []*Goal{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("serializing goals: %w", err)
	}

	var last error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			s.sleep(s.backoff << (attempt - 1))
		}
		if last = s.kv.Set(DataKey, string(data)); last == nil {
			s.goals = next
			s.synced = string(data)
			return nil
		}
	}
	return &PersistenceError{Key: DataKey, Err: last}
}

func (s *Store) replaced(idx int, g *Goal) []*Goal {
	next := make([]*Goal, len(s.goals))
	copy(next, s.goals)
	next[idx] = g
	return next
}

func (s *Store) index(id string) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func validate(in Input) error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "enter a goal"}
	}
	return nil
}

func copyPhotos(photos []string) []string {
	out := make([]string, 0, len(photos))
	return append(out, photos...)
}
