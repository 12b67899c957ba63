package snapshot

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/goalpost/pkg/kv"
	"github.com/stefanpenner/goalpost/pkg/store"
)

var exportTime = time.Date(2026, 3, 1, 9, 30, 15, 123e6, time.UTC)

func fixture() []*store.Goal {
	done := int64(1700000500000)
	return []*store.Goal{
		{ID: "a", Title: "Run", Reason: "health", Category: "Sport", Photos: []string{"data:image/jpeg;base64,AAA"}, CreatedAt: 1700000000000},
		{ID: "b", Title: "Read", Completed: true, CompletedAt: &done, Photos: []string{}, CreatedAt: 1700000100000, UpdatedAt: 1700000200000},
	}
}

func TestEncodeFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fixture(), false, exportTime))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"version\": \"1.3.0\","), out)
	assert.Contains(t, out, `"exportDate": "2026-03-01T09:30:15.123Z"`)
	assert.NotContains(t, out, "autoExport")
	assert.Contains(t, out, `"goal": "Run"`)
	assert.Contains(t, out, `"completedAt": null`)
}

func TestEncodeAuto(t *testing.T) {
	data, err := Marshal(fixture(), true, exportTime)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, true, m["autoExport"])
}

func TestRoundTripIntoEmptyStore(t *testing.T) {
	data, err := Marshal(fixture(), false, exportTime)
	require.NoError(t, err)

	snap, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Version, snap.Version)

	s, err := store.Open(kv.NewMemory())
	require.NoError(t, err)
	res, err := s.MergeImport(snap.Goals)
	require.NoError(t, err)
	assert.Equal(t, store.MergeResult{Merged: 2, Total: 2}, res)

	for _, want := range fixture() {
		got, err := s.Get(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestImportIntoOverlappingStore(t *testing.T) {
	mem := kv.NewMemory()
	s, err := store.Open(mem)
	require.NoError(t, err)
	existing := fixture()[0]
	_, err = s.MergeImport([]store.Goal{*existing})
	require.NoError(t, err)

	data, err := Marshal(fixture(), false, exportTime)
	require.NoError(t, err)
	snap, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)

	res, err := s.MergeImport(snap.Goals)
	require.NoError(t, err)
	assert.Equal(t, store.MergeResult{Merged: 1, Total: 2}, res)
	assert.Equal(t, 2, s.Len())
}

func TestDecodeDefaultsCompleted(t *testing.T) {
	snap, err := Decode(strings.NewReader(`{"goals":[{"id":"x","goal":"Legacy"}],"extra":1}`))
	require.NoError(t, err)
	require.Len(t, snap.Goals, 1)
	assert.False(t, snap.Goals[0].Completed)
	assert.Empty(t, snap.Version)
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "goals"},
		{"missing goals", `{"version":"1.3.0"}`},
		{"goals not array", `{"goals":{"id":"x"}}`},
		{"goals null", `{"goals":null}`},
		{"bad goal", `{"goals":[{"id":5}]}`},
		{"trailing garbage", `{"goals":[]} trailing`},
		{"second object", `{"goals":[]}{"goals":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			var ferr *store.FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, "import", ferr.Source)
		})
	}
}

func TestDecodeAllowsTrailingWhitespace(t *testing.T) {
	snap, err := Decode(strings.NewReader("{\"goals\":[]}\n\n"))
	require.NoError(t, err)
	assert.Empty(t, snap.Goals)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "goals_2026-03-01.json", Filename(exportTime, false))
	assert.Equal(t, "goals_auto_2026-03-01.json", Filename(exportTime, true))
	assert.Equal(t, "goals_2026-03-01.txt", ReportFilename(exportTime))
}
