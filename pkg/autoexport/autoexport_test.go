package autoexport

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalpost/pkg/kv"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func setup(t *testing.T) (*Scheduler, *kv.Memory, *fakeClock) {
	t.Helper()
	mem := kv.NewMemory()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(mem, DefaultDays, clock.Now), mem, clock
}

func counter(n *int) ExportFunc {
	return func(context.Context) error {
		*n++
		return nil
	}
}

func TestEnableSeedsLastExport(t *testing.T) {
	s, mem, clock := setup(t)
	ctx := context.Background()

	require.NoError(t, s.SetEnabled(true))
	raw, ok, err := mem.Get(LastExportKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(clock.t.UnixMilli(), 10), raw)

	var exports int
	ran, err := s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, exports)

	clock.t = clock.t.Add(20 * day)
	ran, err = s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, exports)

	last, ok, err := s.LastExport()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, last.Equal(clock.t))

	ran, err = s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.False(t, ran, "timestamp was updated")
}

func TestEnableKeepsExistingStamp(t *testing.T) {
	s, mem, _ := setup(t)
	require.NoError(t, mem.Set(LastExportKey, "1000"))
	require.NoError(t, s.SetEnabled(true))

	raw, _, err := mem.Get(LastExportKey)
	require.NoError(t, err)
	assert.Equal(t, "1000", raw)
}

func TestCheckDueSkips(t *testing.T) {
	s, mem, _ := setup(t)
	ctx := context.Background()
	var exports int

	// Disabled
	ran, err := s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.False(t, ran)

	// Enabled but never exported and empty collection
	require.NoError(t, mem.Set(EnabledKey, "1"))
	ran, err = s.CheckDue(ctx, false, counter(&exports))
	require.NoError(t, err)
	assert.False(t, ran)

	// Enabled, never exported, non-empty: due
	ran, err = s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, exports)
}

func TestCheckDueExportFailure(t *testing.T) {
	s, mem, _ := setup(t)
	require.NoError(t, mem.Set(EnabledKey, "1"))

	boom := errors.New("disk full")
	ran, err := s.CheckDue(context.Background(), true, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)

	_, ok, err := s.LastExport()
	require.NoError(t, err)
	assert.False(t, ok, "failed export is not recorded")
}

func TestManualExportSharesClock(t *testing.T) {
	s, _, clock := setup(t)
	require.NoError(t, s.RecordExport())

	on, err := s.Enabled()
	require.NoError(t, err)
	assert.False(t, on)

	last, ok, err := s.LastExport()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, last.Equal(clock.t))
}

func TestStatusDaysLeft(t *testing.T) {
	s, _, clock := setup(t)

	st, err := s.Status()
	require.NoError(t, err)
	assert.False(t, st.Exported)

	require.NoError(t, s.SetEnabled(true))
	clock.t = clock.t.Add(5*day + time.Hour)

	st, err = s.Status()
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.True(t, st.Exported)
	assert.Equal(t, 15, st.DaysLeft, "14 days 23 hours rounds up")

	clock.t = clock.t.Add(30 * day)
	st, err = s.Status()
	require.NoError(t, err)
	assert.Equal(t, 0, st.DaysLeft)
}

func TestDisable(t *testing.T) {
	s, mem, _ := setup(t)
	require.NoError(t, s.SetEnabled(true))
	require.NoError(t, s.SetEnabled(false))

	raw, _, err := mem.Get(EnabledKey)
	require.NoError(t, err)
	assert.Equal(t, "0", raw)
}

func TestUnparsableStampNeverDue(t *testing.T) {
	s, mem, clock := setup(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(EnabledKey, "1"))
	require.NoError(t, mem.Set(LastExportKey, "not-a-number"))

	var exports int
	ran, err := s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.False(t, ran)

	clock.t = clock.t.Add(365 * day)
	ran, err = s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, exports)

	st, err := s.Status()
	require.NoError(t, err)
	assert.False(t, st.Exported)

	// Re-enabling replaces the bad stamp and restarts the clock.
	require.NoError(t, s.SetEnabled(true))
	raw, _, err := mem.Get(LastExportKey)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(clock.t.UnixMilli(), 10), raw)

	clock.t = clock.t.Add(20 * day)
	ran, err = s.CheckDue(ctx, true, counter(&exports))
	require.NoError(t, err)
	assert.True(t, ran)
}
