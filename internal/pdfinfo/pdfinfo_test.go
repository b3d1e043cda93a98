package pdfinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studyforge/internal/pdfinfo/pdftest"
)

func TestMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pdf", "notes.pdf", MediaTypePDF},
		{"upper pdf", "NOTES.PDF", MediaTypePDF},
		{"image", "scan.png", "image/png"},
		{"unknown extension", "notes.zzqx", ""},
		{"no extension", "notes", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MediaType(tt.in))
		})
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 not really a pdf"), 0o644))

	file, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "lecture.pdf", file.Name)
	assert.Equal(t, path, file.Path)
	assert.True(t, file.IsPDF())
	assert.Equal(t, int64(25), file.Size)
	assert.Zero(t, file.Pages, "unparseable pdf keeps a zero page count")

	_, err = Inspect(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, err = Inspect(dir)
	assert.Error(t, err)

	_, err = Inspect("  ")
	assert.Error(t, err)
}

func TestInspectCountsPages(t *testing.T) {
	dir := t.TempDir()

	for _, pages := range []int{1, 7} {
		file, err := Inspect(pdftest.Write(t, dir, "lecture.pdf", pages))
		require.NoError(t, err)
		assert.Equal(t, pages, file.Pages)
	}
}

func TestInspectSkipsParsingOversizedFiles(t *testing.T) {
	dir := t.TempDir()

	limit, err := Inspect(pdftest.WriteSized(t, dir, "limit.pdf", 3, MaxUploadSize))
	require.NoError(t, err)
	assert.Equal(t, 3, limit.Pages)

	huge, err := Inspect(pdftest.WriteSized(t, dir, "huge.pdf", 3, MaxUploadSize+1))
	require.NoError(t, err)
	assert.Equal(t, MaxUploadSize+1, huge.Size)
	assert.Zero(t, huge.Pages)
}

func TestPageCountRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	pages, err := PageCount(path)
	assert.Error(t, err)
	assert.Zero(t, pages)
}

func TestCleanPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/tmp/my notes.pdf", CleanPath(`'/tmp/my notes.pdf'`))
	assert.Equal(t, "/tmp/my notes.pdf", CleanPath(`"/tmp/my notes.pdf"`))
	assert.Equal(t, "/tmp/my notes.pdf", CleanPath(`/tmp/my\ notes.pdf `))
	assert.Equal(t, "/tmp/a.pdf", CleanPath("file:///tmp/a.pdf"))
}
