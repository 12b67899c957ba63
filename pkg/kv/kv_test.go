package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDisk(dir)
	require.NoError(t, err)

	_, ok, err := s.Get("goals_app_theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("goals_app_theme", "dark"))
	v, ok, err := s.Get("goals_app_theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	// One file per key
	_, err = os.Stat(filepath.Join(dir, "goals_app_theme"))
	assert.NoError(t, err)

	// Survives reopening
	s2, err := NewDisk(dir)
	require.NoError(t, err)
	v, ok, err = s2.Get("goals_app_theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestDiskDelete(t *testing.T) {
	s, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Delete("k"))
	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Absent key is fine
	assert.NoError(t, s.Delete("k"))
}

func TestMemoryWriteErr(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Set("k", "v1"))

	quota := errors.New("quota exceeded")
	s.WriteErr = quota
	assert.ErrorIs(t, s.Set("k", "v2"), quota)

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 2, s.Writes)
}
