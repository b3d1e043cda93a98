package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studyforge/internal/studyapi"
)

func TestAppendAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "history.json")

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, entries)

	doc := studyapi.Document{ID: "7", Filename: "bio.pdf", PageCount: 30}
	req := studyapi.GenerationRequest{DocumentID: "7", PageStart: 2, PageEnd: 6, MaterialType: "summary", AcademicLevel: "graduate"}
	first := NewEntry(doc, req, studyapi.GenerationResult{Summary: "First.", GenerationTime: 1200, ModelUsed: "bart"})
	require.NoError(t, Append(path, first))

	second := NewEntry(doc, req, studyapi.GenerationResult{Summary: "Second.", MaterialType: "summary"})
	require.NoError(t, Append(path, second))
	require.NoError(t, Append(path))

	entries, err = Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "First.", entries[0].Summary)
	assert.Equal(t, "7", entries[0].DocumentID)
	assert.Equal(t, "bio.pdf", entries[0].Filename)
	assert.Equal(t, 2, entries[0].PageStart)
	assert.Equal(t, 6, entries[0].PageEnd)
	assert.Equal(t, "summary", entries[0].MaterialType)
	assert.Equal(t, int64(1200), entries[0].GenerationTimeMs)
	assert.Equal(t, "Second.", entries[1].Summary)
	assert.False(t, entries[1].SavedAt.IsZero())

	_, err = os.Stat(path + ".part")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed into place")
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Error(t, Append(path, Entry{Summary: "x"}))
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
