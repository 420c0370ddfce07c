package ingestion

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFindPosting_SingleMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jd.txt"), "Senior Go Engineer")
	writeFile(t, filepath.Join(dir, "resume-acme.tex"), "\\begin{document}")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignore me")

	var buf bytes.Buffer
	path, err := FindPosting(dir, "*.txt", newTestLogger(&buf))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jd.txt"), path)
	assert.Empty(t, buf.String(), "no warning for a single match")
}

func TestFindPosting_NoMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "resume-acme.tex"), "")

	path, err := FindPosting(dir, "*.txt", nil)
	assert.Empty(t, path)
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, dir, notFound.Dir)
	assert.Equal(t, "*.txt", notFound.Pattern)
	assert.True(t, errors.Is(err, ErrPostingNotFound))
	assert.Contains(t, err.Error(), "place the job posting")
}

func TestFindPosting_EmptyDir(t *testing.T) {
	_, err := FindPosting(t.TempDir(), "*.txt", nil)
	assert.ErrorIs(t, err, ErrPostingNotFound)
}

func TestFindPosting_MultipleMatchesWarns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "second")
	writeFile(t, filepath.Join(dir, "a.txt"), "first")
	writeFile(t, filepath.Join(dir, "c.txt"), "third")

	var buf bytes.Buffer
	path, err := FindPosting(dir, "*.txt", newTestLogger(&buf))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.txt"), path, "lexical order picks the first")
	assert.Contains(t, buf.String(), "multiple job posting files found")
	assert.Contains(t, buf.String(), "count=3")

	// Deterministic across calls
	again, err := FindPosting(dir, "*.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestFindPosting_NotRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "archive")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, filepath.Join(sub, "old.txt"), "old posting")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0755))

	_, err := FindPosting(dir, "*.txt", nil)
	assert.ErrorIs(t, err, ErrPostingNotFound)
}

func TestFindPosting_MissingDir(t *testing.T) {
	_, err := FindPosting(filepath.Join(t.TempDir(), "missing"), "*.txt", nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPostingNotFound))
	assert.Contains(t, err.Error(), "failed to list job folder")
}

func TestFindPosting_BadPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jd.txt"), "")

	_, err := FindPosting(dir, "[", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid posting pattern")
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	content := "  Raw text\r\n\n\n\nwith   spacing kept  "
	path := filepath.Join(dir, "jd.txt")
	writeFile(t, path, content)

	got, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadDocument_Missing(t *testing.T) {
	_, err := ReadDocument("/nonexistent/resume.tex")
	require.Error(t, err)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "/nonexistent/resume.tex", readErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
