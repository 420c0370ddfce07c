package ingestion

import (
	"errors"
	"fmt"
)

// ErrPostingNotFound is matched by errors.Is for every *NotFoundError.
var ErrPostingNotFound = errors.New("job posting not found")

// NotFoundError reports a job folder with no file matching the posting pattern.
type NotFoundError struct {
	Dir     string
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s file found in %s: place the job posting as a %s file in the offer folder", e.Pattern, e.Dir, e.Pattern)
}

// Is lets errors.Is(err, ErrPostingNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrPostingNotFound
}

// ReadError represents a failure reading an input document
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}
