package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalpost/pkg/kv"
	"github.com/stefanpenner/goalpost/pkg/store"
)

// isolate keeps the developer's own config and environment out of the run
// and returns a fresh data directory.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("GOALPOST_CONFIG_PATH", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))
	for _, k := range []string{"GOALPOST_DIR", "GOALPOST_DATA_DIR", "GOALPOST_EXPORT_DIR", "GOALPOST_PAGE_SIZE", "GOALPOST_AUTO_EXPORT_DAYS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(root)
	return filepath.Join(root, "data")
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := New(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-02-08"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--dir", dir))
	err := cmd.Execute()
	return out.String(), err
}

func listJSON(t *testing.T, dir string, args ...string) []store.Goal {
	t.Helper()
	out, err := run(t, dir, append([]string{"list", "-o", "json"}, args...)...)
	require.NoError(t, err)
	var goals []store.Goal
	require.NoError(t, json.Unmarshal([]byte(out), &goals))
	return goals
}

func TestAddListDone(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, dir, "add", "see", "the", "northern", "lights", "--reason", "always wanted to", "-c", "Travel")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "see the northern lights")

	_, err = run(t, dir, "add", "run a marathon", "-c", "Health")
	require.NoError(t, err)

	goals := listJSON(t, dir)
	require.Len(t, goals, 2)
	var lights store.Goal
	for _, g := range goals {
		if g.Title == "see the northern lights" {
			lights = g
		}
	}
	assert.Equal(t, "always wanted to", lights.Reason)
	assert.Equal(t, "Travel", lights.Category)

	out, err = run(t, dir, "done", lights.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "see the northern lights")

	done := listJSON(t, dir, "--status", "completed")
	require.Len(t, done, 1)
	assert.True(t, done[0].Completed)
	assert.NotNil(t, done[0].CompletedAt)

	active := listJSON(t, dir, "--status", "active")
	require.Len(t, active, 1)
	assert.Equal(t, "run a marathon", active[0].Title)

	_, err = run(t, dir, "undo", lights.ID)
	require.NoError(t, err)
	assert.Len(t, listJSON(t, dir, "--status", "active"), 2)
}

func TestListTable(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No goals yet")

	_, err = run(t, dir, "add", "learn piano", "-c", "Music")
	require.NoError(t, err)
	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "GOAL")
	assert.Contains(t, out, "learn piano")
	assert.Contains(t, out, "Music")

	out, err = run(t, dir, "list", "--search", "guitar")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing found")
}

func TestListPages(t *testing.T) {
	dir := isolate(t)

	disk, err := kv.NewDisk(filepath.Join(dir, "store"))
	require.NoError(t, err)
	s, err := store.Open(disk)
	require.NoError(t, err)
	for i := range 25 {
		_, err := s.Create(store.Input{Title: fmt.Sprintf("goal %d", i)})
		require.NoError(t, err)
	}

	assert.Len(t, listJSON(t, dir), 20)
	assert.Len(t, listJSON(t, dir, "--pages", "2"), 25)
	assert.Len(t, listJSON(t, dir, "--pages", "0"), 25)

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "showing 20 of 25")

	_, err = run(t, dir, "list", "--pages", "-1")
	assert.Error(t, err)
}

func TestEditWithFlags(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, dir, "add", "write a book", "-r", "legacy", "-c", "Craft")
	require.NoError(t, err)
	id := listJSON(t, dir)[0].ID

	_, err = run(t, dir, "edit", id, "--title", "write two books", "--category", "")
	require.NoError(t, err)

	g := listJSON(t, dir)[0]
	assert.Equal(t, "write two books", g.Title)
	assert.Equal(t, "legacy", g.Reason)
	assert.Empty(t, g.Category)
	assert.NotZero(t, g.UpdatedAt)

	_, err = run(t, dir, "edit", id, "--title", "  ")
	var verr *store.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUnknownID(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, dir, "rm", "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, dir, "done", "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemove(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, dir, "add", "climb a mountain")
	require.NoError(t, err)
	id := listJSON(t, dir)[0].ID

	out, err := run(t, dir, "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted climb a mountain")
	assert.Empty(t, listJSON(t, dir))
}

func TestExportImport(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, dir, "export")
	require.Error(t, err, "empty collections are not exported")

	_, err = run(t, dir, "add", "visit Kyoto", "-c", "Travel")
	require.NoError(t, err)
	out, err := run(t, dir, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 goals")

	files, err := filepath.Glob(filepath.Join(dir, "exports", "goals_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	other := filepath.Join(filepath.Dir(dir), "other")
	out, err = run(t, other, "import", files[0])
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 new goals")

	out, err = run(t, other, "import", files[0])
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 new goals")
	assert.Len(t, listJSON(t, other), 1)

	bad := filepath.Join(filepath.Dir(dir), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":"1.3.0"}`), 0o644))
	_, err = run(t, other, "import", bad)
	var ferr *store.FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestPrint(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, dir, "add", "learn to sail", "-c", "Adventure")
	require.NoError(t, err)

	out, err := run(t, dir, "print", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "MY GOALS")
	assert.Contains(t, out, "learn to sail")

	out, err = run(t, dir, "print")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote report to")
	files, err := filepath.Glob(filepath.Join(dir, "exports", "goals_*.txt"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestAutoExportAndTheme(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, dir, "autoexport")
	require.NoError(t, err)
	assert.Contains(t, out, "off")
	assert.Contains(t, out, "never")

	out, err = run(t, dir, "autoexport", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "on")
	assert.Contains(t, out, "in 20 days")

	_, err = run(t, dir, "autoexport", "sometimes")
	assert.Error(t, err)

	out, err = run(t, dir, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = run(t, dir, "theme", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)
}

func TestStatsAndCategories(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, dir, "add", "a", "-c", "Travel")
	require.NoError(t, err)
	_, err = run(t, dir, "add", "b", "-c", "Travel")
	require.NoError(t, err)
	_, err = run(t, dir, "add", "c")
	require.NoError(t, err)

	out, err := run(t, dir, "categories", "-o", "json")
	require.NoError(t, err)
	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, map[string]int{"all": 3, "Travel": 2, "__none__": 1}, counts)

	out, err = run(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "0%")
	assert.Contains(t, out, "Uncategorized")
}

func TestVersion(t *testing.T) {
	out, err := run(t, isolate(t), "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
}
