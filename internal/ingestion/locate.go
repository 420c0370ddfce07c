// Package ingestion locates and reads the inputs of a tailoring run: the job
// posting inside a job folder and the canonical resume.
package ingestion

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FindPosting returns the single file in dir whose name matches pattern.
// The listing is not recursive and is taken in lexical order. When several
// files match, the first one is used and a warning is logged.
func FindPosting(dir, pattern string, logger *slog.Logger) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list job folder %s: %w", dir, err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return "", fmt.Errorf("invalid posting pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}

	if len(matches) == 0 {
		return "", &NotFoundError{Dir: dir, Pattern: pattern}
	}

	if len(matches) > 1 && logger != nil {
		logger.Warn("multiple job posting files found, using the first",
			"using", matches[0],
			"count", len(matches),
			"dir", dir,
		)
	}

	return matches[0], nil
}

// ReadDocument returns the raw contents of path, unmodified.
func ReadDocument(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Cause: err}
	}
	return string(content), nil
}
