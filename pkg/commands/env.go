package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/goalpost/pkg/app"
	"github.com/stefanpenner/goalpost/pkg/config"
	"github.com/stefanpenner/goalpost/pkg/kv"
	"github.com/stefanpenner/goalpost/pkg/logging"
	"github.com/stefanpenner/goalpost/pkg/render"
	"github.com/stefanpenner/goalpost/pkg/store"
)

// env is everything a command needs: resolved config, the open store and
// the controller around it.
type env struct {
	cfg      *config.Config
	disk     *kv.Disk
	app      *app.App
	log      *slog.Logger
	closeLog func() error
}

// openEnv loads config, opens the store and runs the startup auto-export
// check. Warnings go to stderr so stdout stays clean for JSON output.
func openEnv(cmd *cobra.Command, ro *rootOptions, card render.CardFunc) (*env, error) {
	cfg, err := config.Load(ro.Dir)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.OpenFile(cfg.LogFile(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	disk, err := kv.NewDisk(cfg.StoreDir())
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	s, err := store.Open(disk)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	a := app.New(disk, s, app.Options{
		PageSize:       cfg.PageSize,
		AutoExportDays: cfg.AutoExportDays,
		Card:           card,
		Saver:          app.DirSaver{Dir: cfg.ExportDir},
		Logger:         logger,
	})

	stderr := cmd.ErrOrStderr()
	if rec := a.Recovered(); rec != nil {
		fmt.Fprintf(stderr, "Warning: stored goals could not be read and were set aside under %q: %v\n",
			store.CorruptKey, rec.Err)
	}
	ran, err := a.CheckAutoExport(cmd.Context())
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	} else if ran {
		fmt.Fprintf(stderr, "Auto-exported goals to %s\n", cfg.ExportDir)
	}

	return &env{cfg: cfg, disk: disk, app: a, log: logger, closeLog: closeLog}, nil
}

func (e *env) Close() error {
	return e.closeLog()
}

// errAmbiguous is returned when an id prefix matches more than one goal.
var errAmbiguous = errors.New("ambiguous id")

// resolveID expands a unique id prefix into the full id.
func resolveID(a *app.App, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", &store.ValidationError{Field: "id", Message: "id is required"}
	}
	if g, err := a.Get(prefix); err == nil {
		return g.ID, nil
	}
	var matches []string
	for _, g := range a.Store().Goals() {
		if strings.HasPrefix(g.ID, prefix) {
			matches = append(matches, g.ID)
		}
	}
	switch len(matches) {
	case 0:
		_, err := a.Get(prefix)
		return "", err
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: %q matches %d goals", errAmbiguous, prefix, len(matches))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
