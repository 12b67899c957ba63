// Package review implements the review slideshow: a circular walk over a
// snapshot of active goals with an optional auto-advance timer.
package review

import (
	"errors"
	"time"

	"github.com/stefanpenner/goalpost/pkg/store"
)

// ErrEmptySet is returned by Start when no goal qualifies for review.
var ErrEmptySet = errors.New("no active goals to review")

// Presets are the auto-advance intervals offered in the UI, in seconds.
var Presets = []int{0, 3, 5, 10, 15}

// State is the sequencer state.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Sequencer walks a review session. The timer itself lives with the caller:
// SetAutoAdvance hands out a generation, and ticks carrying an older
// generation are ignored.
type Sequencer struct {
	state    State
	goals    []*store.Goal
	index    int
	photo    int
	interval time.Duration
	gen      int
}

// New returns an idle sequencer.
func New() *Sequencer {
	return &Sequencer{}
}

// State returns Idle or Active.
func (s *Sequencer) State() State { return s.state }

// Start snapshots candidates and shows the first one. Any auto-advance is
// cancelled. Later changes to the store do not affect the session.
func (s *Sequencer) Start(candidates []*store.Goal) error {
	if len(candidates) == 0 {
		return ErrEmptySet
	}
	snap := make([]*store.Goal, len(candidates))
	for i, g := range candidates {
		snap[i] = g.Clone()
	}
	s.goals = snap
	s.index = 0
	s.photo = 0
	s.cancelTimer()
	s.state = Active
	return nil
}

// Stop cancels the timer and discards the snapshot.
func (s *Sequencer) Stop() {
	s.cancelTimer()
	s.goals = nil
	s.index = 0
	s.photo = 0
	s.state = Idle
}

// Len returns the number of goals in the session.
func (s *Sequencer) Len() int { return len(s.goals) }

// Current returns the goal on screen, or nil when idle.
func (s *Sequencer) Current() *store.Goal {
	if len(s.goals) == 0 {
		return nil
	}
	return s.goals[s.index]
}

// Position returns the 1-based slide number and the session length.
func (s *Sequencer) Position() (int, int) {
	if len(s.goals) == 0 {
		return 0, 0
	}
	return s.index + 1, len(s.goals)
}

// Index returns the 0-based slide index.
func (s *Sequencer) Index() int { return s.index }

// Next moves forward, wrapping to the first slide.
func (s *Sequencer) Next() {
	s.step(1)
}

// Prev moves backward, wrapping to the last slide.
func (s *Sequencer) Prev() {
	s.step(-1)
}

func (s *Sequencer) step(delta int) {
	n := len(s.goals)
	if n == 0 {
		return
	}
	s.index = (s.index + delta + n) % n
	s.photo = 0
}

// SetAutoAdvance cancels any running timer and, for seconds > 0, arms a new
// one. It returns the generation the caller's ticks must carry.
func (s *Sequencer) SetAutoAdvance(seconds int) int {
	s.cancelTimer()
	if seconds > 0 && s.state == Active {
		s.interval = time.Duration(seconds) * time.Second
	}
	return s.gen
}

// Interval returns the auto-advance interval, zero when off.
func (s *Sequencer) Interval() time.Duration { return s.interval }

// Tick advances the session if gen belongs to the running timer. It
// returns whether the timer is still live and should be re-armed.
func (s *Sequencer) Tick(gen int) bool {
	if gen != s.gen || s.interval == 0 || s.state != Active {
		return false
	}
	s.Next()
	return true
}

func (s *Sequencer) cancelTimer() {
	s.gen++
	s.interval = 0
}

// CyclePhoto shows the next photo of the current goal, wrapping around.
func (s *Sequencer) CyclePhoto() {
	g := s.Current()
	if g == nil || len(g.Photos) < 2 {
		return
	}
	s.photo = (s.photo + 1) % len(g.Photos)
}

// PhotoIndex returns the photo shown for the current goal.
func (s *Sequencer) PhotoIndex() int { return s.photo }

// NextPreset returns the preset after seconds, or before it when back is
// set. It stops at either end.
func NextPreset(seconds int, back bool) int {
	idx := 0
	for i, p := range Presets {
		if p <= seconds {
			idx = i
		}
	}
	if back {
		idx = max(idx-1, 0)
	} else {
		idx = min(idx+1, len(Presets)-1)
	}
	return Presets[idx]
}
