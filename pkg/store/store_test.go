package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalpost/pkg/kv"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setupTestStore(t *testing.T) (*Store, *kv.Memory, *fakeClock) {
	t.Helper()
	mem := kv.NewMemory()
	clock := &fakeClock{t: time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)}
	n := 0
	s, err := Open(mem,
		WithClock(clock.Now),
		WithIDs(func() string { n++; return fmt.Sprintf("g%d", n) }),
		WithRetry(3, 0),
	)
	require.NoError(t, err)
	s.sleep = func(time.Duration) {}
	return s, mem, clock
}

func persisted(t *testing.T, mem *kv.Memory) []Goal {
	t.Helper()
	raw, ok, err := mem.Get(DataKey)
	require.NoError(t, err)
	require.True(t, ok)
	var goals []Goal
	require.NoError(t, json.Unmarshal([]byte(raw), &goals))
	return goals
}

func checkInvariants(t *testing.T, s *Store) {
	t.Helper()
	ids := make(map[string]bool)
	for _, g := range s.Goals() {
		assert.False(t, ids[g.ID], "duplicate id %s", g.ID)
		ids[g.ID] = true
		assert.Equal(t, g.Completed, g.CompletedAt != nil, "completedAt invariant for %s", g.ID)
		assert.NotEmpty(t, g.Title)
	}
}

func TestCreateGoal(t *testing.T) {
	s, mem, clock := setupTestStore(t)

	g, err := s.Create(Input{Title: "  Run a marathon ", Reason: "health", Category: "Sport"})
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "Run a marathon", g.Title)
	assert.False(t, g.Completed)
	assert.Nil(t, g.CompletedAt)
	assert.Equal(t, clock.t.UnixMilli(), g.CreatedAt)
	assert.Zero(t, g.UpdatedAt)
	assert.Equal(t, []string{}, g.Photos)

	// Persisted immediately
	goals := persisted(t, mem)
	require.Len(t, goals, 1)
	assert.Equal(t, "Run a marathon", goals[0].Title)
}

func TestCreateGoalEmptyTitle(t *testing.T) {
	s, mem, _ := setupTestStore(t)

	_, err := s.Create(Input{Title: "   ", Reason: "why"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, mem.Writes)
}

func TestUpdateGoal(t *testing.T) {
	s, _, clock := setupTestStore(t)

	g, err := s.Create(Input{Title: "Learn Go", Photos: []string{"a", "b"}})
	require.NoError(t, err)
	created := g.CreatedAt

	clock.Advance(time.Hour)
	g, err = s.Update(g.ID, Input{Title: "Learn Go well", Category: "Study", Photos: []string{"b", "a"}})
	require.NoError(t, err)
	assert.Equal(t, "Learn Go well", g.Title)
	assert.Equal(t, "Study", g.Category)
	assert.Equal(t, []string{"b", "a"}, g.Photos)
	assert.Equal(t, created, g.CreatedAt)
	assert.Equal(t, clock.t.UnixMilli(), g.UpdatedAt)

	got, err := s.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn Go well", got.Title)
}

func TestUpdateGoalErrors(t *testing.T) {
	s, _, _ := setupTestStore(t)

	_, err := s.Update("missing", Input{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	g, err := s.Create(Input{Title: "Keep me"})
	require.NoError(t, err)
	_, err = s.Update(g.ID, Input{Title: ""})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := s.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Title)
}

func TestDeleteGoal(t *testing.T) {
	s, mem, _ := setupTestStore(t)

	a, err := s.Create(Input{Title: "A"})
	require.NoError(t, err)
	_, err = s.Create(Input{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(a.ID))
	assert.Equal(t, 1, s.Len())
	assert.Len(t, persisted(t, mem), 1)

	assert.ErrorIs(t, s.Delete(a.ID), ErrNotFound)
}

func TestSetCompleted(t *testing.T) {
	s, _, clock := setupTestStore(t)

	g, err := s.Create(Input{Title: "Ship it"})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	g, err = s.SetCompleted(g.ID, true)
	require.NoError(t, err)
	assert.True(t, g.Completed)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, clock.t.UnixMilli(), *g.CompletedAt)
	assert.Zero(t, g.UpdatedAt, "completion is not an edit")

	g, err = s.SetCompleted(g.ID, false)
	require.NoError(t, err)
	assert.False(t, g.Completed)
	assert.Nil(t, g.CompletedAt)

	_, err = s.SetCompleted("nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutationSequenceInvariants(t *testing.T) {
	s, _, clock := setupTestStore(t)

	var ids []string
	for i := 0; i < 30; i++ {
		clock.Advance(time.Second)
		g, err := s.Create(Input{Title: fmt.Sprintf("goal %d", i)})
		require.NoError(t, err)
		ids = append(ids, g.ID)

		switch i % 4 {
		case 1:
			_, err = s.SetCompleted(ids[i-1], true)
		case 2:
			_, err = s.Update(ids[i/2], Input{Title: "edited"})
		case 3:
			err = s.Delete(ids[i-3])
			if errors.Is(err, ErrNotFound) {
				err = nil
			}
		}
		require.NoError(t, err)
		checkInvariants(t, s)
	}
}

func TestMergeImport(t *testing.T) {
	s, _, _ := setupTestStore(t)

	existing, err := s.Create(Input{Title: "Existing"})
	require.NoError(t, err)

	done := int64(5)
	res, err := s.MergeImport([]Goal{
		{ID: existing.ID, Title: "Overwrite attempt"},
		{ID: "imp-1", Title: "Imported", CreatedAt: 1},
		{ID: "imp-1", Title: "Duplicate in batch"},
		{ID: "imp-2", Title: "Done", Completed: true, CompletedAt: &done},
		{ID: "imp-3", Title: "Done without stamp", Completed: true, CreatedAt: 7},
		{ID: "imp-4", Title: "Stray stamp", CompletedAt: &done},
		{Title: "No id"},
		{ID: "imp-5", Title: "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Merged: 5, Total: 8}, res)

	got, err := s.Get(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Existing", got.Title)

	imp3, err := s.Get("imp-3")
	require.NoError(t, err)
	require.NotNil(t, imp3.CompletedAt)
	assert.Equal(t, int64(7), *imp3.CompletedAt)

	imp4, err := s.Get("imp-4")
	require.NoError(t, err)
	assert.Nil(t, imp4.CompletedAt)

	checkInvariants(t, s)
}

func TestMergeImportNothingNew(t *testing.T) {
	s, mem, _ := setupTestStore(t)

	g, err := s.Create(Input{Title: "Only"})
	require.NoError(t, err)
	writes := mem.Writes

	res, err := s.MergeImport([]Goal{{ID: g.ID, Title: "Only"}})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Merged: 0, Total: 1}, res)
	assert.Equal(t, writes, mem.Writes)
}

func TestOpenLoadsPersisted(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(DataKey, `[{"id":"x","goal":"Read","completed":false,"completedAt":null,"createdAt":100}]`))

	s, err := Open(mem)
	require.NoError(t, err)
	assert.Nil(t, s.Recovered)
	require.Equal(t, 1, s.Len())
	g, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "Read", g.Title)
	assert.Equal(t, []string{}, g.Photos)
}

func TestOpenCorruptSnapshot(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(DataKey, `[{"id":`))

	s, err := Open(mem)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	require.NotNil(t, s.Recovered)
	assert.Equal(t, DataKey, s.Recovered.Source)

	backup, ok, err := mem.Get(CorruptKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":`, backup)
}

func TestPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	s, mem, _ := setupTestStore(t)

	g, err := s.Create(Input{Title: "Stable"})
	require.NoError(t, err)

	quota := errors.New("quota exceeded")
	mem.WriteErr = quota
	writes := mem.Writes

	_, err = s.Create(Input{Title: "Lost"})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, quota)
	assert.Equal(t, 3, mem.Writes-writes, "retried")
	assert.Equal(t, 1, s.Len())

	_, err = s.SetCompleted(g.ID, true)
	require.Error(t, err)
	got, err := s.Get(g.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	mem.WriteErr = nil
	_, err = s.Create(Input{Title: "Recovered"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestReload(t *testing.T) {
	s, mem, _ := setupTestStore(t)

	_, err := s.Create(Input{Title: "Mine"})
	require.NoError(t, err)

	// Another process appends a goal
	goals := persisted(t, mem)
	goals = append(goals, Goal{ID: "ext", Title: "Theirs", Photos: []string{}})
	data, err := json.Marshal(goals)
	require.NoError(t, err)
	require.NoError(t, mem.Set(DataKey, string(data)))

	require.NoError(t, s.Reload())
	assert.Equal(t, 2, s.Len())
}

func TestChanged(t *testing.T) {
	s, mem, _ := setupTestStore(t)

	changed, err := s.Changed()
	require.NoError(t, err)
	assert.False(t, changed, "nothing stored yet")

	_, err = s.Create(Input{Title: "Mine"})
	require.NoError(t, err)
	changed, err = s.Changed()
	require.NoError(t, err)
	assert.False(t, changed, "own write")

	other, err := Open(mem)
	require.NoError(t, err)
	_, err = other.Create(Input{Title: "Theirs"})
	require.NoError(t, err)
	changed, err = s.Changed()
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, s.Reload())
	changed, err = s.Changed()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 2, s.Len())
}

func TestChangedAfterCorruptLoad(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(DataKey, `not json`))

	s, err := Open(mem)
	require.NoError(t, err)
	changed, err := s.Changed()
	require.NoError(t, err)
	assert.False(t, changed)
}
