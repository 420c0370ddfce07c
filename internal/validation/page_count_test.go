package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountPDFPages_MissingFile(t *testing.T) {
	_, err := CountPDFPages("/nonexistent/resume.pdf")
	require.Error(t, err)

	var vErr *Error
	assert.True(t, errors.As(err, &vErr))
}

func TestCountPDFPages_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0644))

	pages, err := CountPDFPages(path)
	assert.Error(t, err)
	assert.Equal(t, 0, pages)
}
