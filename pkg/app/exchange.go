package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/stefanpenner/goalpost/pkg/autoexport"
	"github.com/stefanpenner/goalpost/pkg/report"
	"github.com/stefanpenner/goalpost/pkg/snapshot"
	"github.com/stefanpenner/goalpost/pkg/store"
)

var (
	// ErrNothingToExport is returned when exporting an empty collection.
	ErrNothingToExport = errors.New("no goals to export")
	// ErrNoSaver is returned when no file saver is configured.
	ErrNoSaver = errors.New("no export destination configured")
)

// Export writes a full snapshot through the saver and stamps the shared
// last-export time. It returns where the file went.
func (a *App) Export(ctx context.Context) (string, error) {
	if a.store.Len() == 0 {
		return "", ErrNothingToExport
	}
	path, err := a.saveSnapshot(ctx, false)
	if err != nil {
		return "", err
	}
	if err := a.scheduler.RecordExport(); err != nil {
		return path, err
	}
	a.log.Info("exported goals", slog.String("path", path), slog.Int("count", a.store.Len()))
	return path, nil
}

func (a *App) saveSnapshot(ctx context.Context, auto bool) (string, error) {
	if a.saver == nil {
		return "", ErrNoSaver
	}
	now := a.now()
	data, err := snapshot.Marshal(a.store.Goals(), auto, now)
	if err != nil {
		return "", err
	}
	return a.saver.Save(ctx, snapshot.Filename(now, auto), data, snapshot.MIMEJSON)
}

// Import merges a snapshot into the collection. Goals whose id already
// exists are skipped. A malformed payload changes nothing.
func (a *App) Import(r io.Reader) (store.MergeResult, error) {
	snap, err := snapshot.Decode(r)
	if err != nil {
		return store.MergeResult{}, err
	}
	res, err := a.store.MergeImport(snap.Goals)
	if err != nil {
		return res, err
	}
	a.log.Info("imported goals", slog.Int("merged", res.Merged), slog.Int("total", res.Total))
	a.refresh()
	return res, nil
}

// ImportFile imports the snapshot at path.
func (a *App) ImportFile(path string) (store.MergeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return store.MergeResult{}, fmt.Errorf("opening import: %w", err)
	}
	defer f.Close()
	return a.Import(f)
}

// Report returns the printable report text.
func (a *App) Report() (string, error) {
	return report.Format(a.store.Goals(), a.now())
}

// Print saves the printable report.
func (a *App) Print(ctx context.Context) (string, error) {
	if a.saver == nil {
		return "", ErrNoSaver
	}
	now := a.now()
	text, err := report.Format(a.store.Goals(), now)
	if err != nil {
		return "", err
	}
	path, err := a.saver.Save(ctx, snapshot.ReportFilename(now), []byte(text), snapshot.MIMEText)
	if err != nil {
		return "", err
	}
	a.log.Info("printed goals", slog.String("path", path))
	return path, nil
}

// SetAutoExport turns periodic export on or off.
func (a *App) SetAutoExport(on bool) error {
	if err := a.scheduler.SetEnabled(on); err != nil {
		return err
	}
	a.log.Info("auto-export toggled", slog.Bool("enabled", on))
	return nil
}

// AutoExportStatus describes the export schedule.
func (a *App) AutoExportStatus() (autoexport.Status, error) {
	return a.scheduler.Status()
}

// CheckAutoExport runs the periodic export if it is due. Call it once at
// startup.
func (a *App) CheckAutoExport(ctx context.Context) (bool, error) {
	var path string
	ran, err := a.scheduler.CheckDue(ctx, a.store.Len() > 0, func(ctx context.Context) error {
		var err error
		path, err = a.saveSnapshot(ctx, true)
		return err
	})
	if err != nil {
		a.log.Error("auto-export failed", slog.String("error", err.Error()))
		return false, err
	}
	if ran {
		a.log.Info("auto-exported goals", slog.String("path", path))
	} else {
		a.log.Debug("auto-export not due")
	}
	return ran, nil
}
