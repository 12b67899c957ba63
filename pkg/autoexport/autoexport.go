// Package autoexport decides when a periodic full export is due. Its state
// lives in the key-value store so it survives restarts.
package autoexport

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/stefanpenner/goalpost/pkg/kv"
)

const (
	// EnabledKey holds "1" when auto-export is on.
	EnabledKey = "goals_app_autoexport"
	// LastExportKey holds the last export time in epoch milliseconds. Manual
	// and automatic exports share it.
	LastExportKey = "goals_app_last_export"

	// DefaultDays is the export interval.
	DefaultDays = 20

	day = 24 * time.Hour
)

// ExportFunc writes a full automatic export.
type ExportFunc func(ctx context.Context) error

// Scheduler reads and writes the auto-export state.
type Scheduler struct {
	kv       kv.Store
	interval time.Duration
	now      func() time.Time
}

// New returns a scheduler with an interval of days. A non-positive value
// uses DefaultDays.
func New(kvs kv.Store, days int, now func() time.Time) *Scheduler {
	if days <= 0 {
		days = DefaultDays
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{kv: kvs, interval: time.Duration(days) * day, now: now}
}

// Interval returns the export interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Enabled reports whether auto-export is on.
func (s *Scheduler) Enabled() (bool, error) {
	v, _, err := s.kv.Get(EnabledKey)
	if err != nil {
		return false, fmt.Errorf("reading auto-export flag: %w", err)
	}
	return v == "1", nil
}

// SetEnabled turns auto-export on or off. Turning it on without a usable
// prior export seeds the last-export time with now, so nothing fires right
// away.
func (s *Scheduler) SetEnabled(on bool) error {
	flag := "0"
	if on {
		flag = "1"
	}
	if err := s.kv.Set(EnabledKey, flag); err != nil {
		return fmt.Errorf("writing auto-export flag: %w", err)
	}
	if !on {
		return nil
	}
	_, ok, err := s.LastExport()
	if err != nil {
		return err
	}
	if !ok {
		return s.RecordExport()
	}
	return nil
}

// LastExport returns the time of the last export, if any. A stamp that does
// not parse reports no export.
func (s *Scheduler) LastExport() (time.Time, bool, error) {
	last, st, err := s.stamp()
	return last, st == stampValid, err
}

type stampState int

const (
	stampMissing stampState = iota
	stampValid
	stampInvalid
)

func (s *Scheduler) stamp() (time.Time, stampState, error) {
	v, ok, err := s.kv.Get(LastExportKey)
	if err != nil {
		return time.Time{}, stampMissing, fmt.Errorf("reading last export: %w", err)
	}
	if !ok || v == "" {
		return time.Time{}, stampMissing, nil
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, stampInvalid, nil
	}
	if ms <= 0 {
		return time.Time{}, stampMissing, nil
	}
	return time.UnixMilli(ms), stampValid, nil
}

// RecordExport stamps the last-export time with now.
func (s *Scheduler) RecordExport() error {
	ms := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.kv.Set(LastExportKey, ms); err != nil {
		return fmt.Errorf("writing last export: %w", err)
	}
	return nil
}

// Due reports whether an export should run now. A missing last-export time
// counts as never exported; one that does not parse never comes due.
func (s *Scheduler) Due(nonEmpty bool) (bool, error) {
	on, err := s.Enabled()
	if err != nil || !on || !nonEmpty {
		return false, err
	}
	last, st, err := s.stamp()
	if err != nil || st == stampInvalid {
		return false, err
	}
	return s.now().Sub(last) >= s.interval, nil
}

// CheckDue runs export when an export is due and then records it. It
// returns whether an export ran. A failed export is not recorded.
func (s *Scheduler) CheckDue(ctx context.Context, nonEmpty bool, export ExportFunc) (bool, error) {
	due, err := s.Due(nonEmpty)
	if err != nil || !due {
		return false, err
	}
	if err := export(ctx); err != nil {
		return false, fmt.Errorf("auto-export: %w", err)
	}
	return true, s.RecordExport()
}

// Status describes the schedule for display.
type Status struct {
	Enabled    bool
	Exported   bool // false when no export has happened yet
	LastExport time.Time
	Next       time.Time
	DaysLeft   int
}

// Status computes the days remaining until the next export, rounded up and
// floored at zero.
func (s *Scheduler) Status() (Status, error) {
	on, err := s.Enabled()
	if err != nil {
		return Status{}, err
	}
	last, ok, err := s.LastExport()
	if err != nil {
		return Status{}, err
	}
	st := Status{Enabled: on, Exported: ok}
	if !ok {
		return st, nil
	}
	st.LastExport = last
	st.Next = last.Add(s.interval)
	left := math.Ceil(float64(st.Next.Sub(s.now())) / float64(day))
	st.DaysLeft = max(0, int(left))
	return st, nil
}
