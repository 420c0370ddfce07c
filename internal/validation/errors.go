// Package validation checks the tailored LaTeX document: a cheap structural
// check on the text, and the authoritative pdflatex compilation.
package validation

import "fmt"

// Error represents a general validation error
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// CompilationError represents a LaTeX compilation failure.
// LogOutput holds only the tail of the compiler output; LogPath points at the full log.
type CompilationError struct {
	Message   string
	Pass      int
	ExitCode  int
	LogPath   string
	LogOutput string
	State     CompileState
	Cause     error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("LaTeX compilation error: %s", e.Message)
	if e.Pass > 0 {
		msg = fmt.Sprintf("LaTeX compilation error: pass %d: %s", e.Pass, e.Message)
	}
	if e.LogPath != "" {
		msg += fmt.Sprintf(" (check the log: %s)", e.LogPath)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
