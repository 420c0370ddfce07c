package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultCompiler is the LaTeX compiler program
	DefaultCompiler = "pdflatex"
	// DefaultLogTailBytes is how much compiler output a CompilationError carries
	DefaultLogTailBytes = 2000
	// compilePasses is fixed: the second pass resolves references recorded by the first
	compilePasses = 2
)

// CompileState tracks the progress of a two-pass compilation.
type CompileState string

// Compilation states. Pass1Failed, Pass2Failed and Success are terminal.
const (
	StateIdle         CompileState = "idle"
	StatePass1Running CompileState = "pass1_running"
	StatePass1Failed  CompileState = "pass1_failed"
	StatePass2Running CompileState = "pass2_running"
	StatePass2Failed  CompileState = "pass2_failed"
	StateSuccess      CompileState = "success"
)

// Command is one synchronous invocation of an external tool.
type Command struct {
	Dir  string
	Name string
	Args []string
}

// CommandResult holds the exit status and the combined stdout/stderr of a Command.
type CommandResult struct {
	ExitCode int
	Output   string
}

// CommandRunner runs external tools. A non-zero exit is reported through
// CommandResult.ExitCode; an error means the tool could not be run at all.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes cmd and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	path, err := exec.LookPath(cmd.Name)
	if err != nil {
		return CommandResult{ExitCode: -1}, fmt.Errorf("%s not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX): %w", cmd.Name, err)
	}

	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Dir = cmd.Dir

	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	runErr := c.Run()
	result := CommandResult{Output: out.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if runErr != nil {
		result.ExitCode = -1
		return result, runErr
	}

	return result, nil
}

// CompileResult describes a successful compilation.
type CompileResult struct {
	PDFPath string
	LogPath string
	Passes  int
	State   CompileState
}

// LaTeXCompiler runs the document compiler twice over a source file.
type LaTeXCompiler struct {
	Runner    CommandRunner
	Program   string
	RootDir   string // working directory for the compiler; paths are passed relative to it
	TailBytes int

	// OnStateChange, when set, observes every state transition.
	OnStateChange func(CompileState)
}

// NewLaTeXCompiler creates a compiler running program from rootDir.
// Zero values fall back to ExecRunner, pdflatex and DefaultLogTailBytes.
func NewLaTeXCompiler(runner CommandRunner, program, rootDir string, tailBytes int) *LaTeXCompiler {
	if runner == nil {
		runner = ExecRunner{}
	}
	if program == "" {
		program = DefaultCompiler
	}
	if tailBytes <= 0 {
		tailBytes = DefaultLogTailBytes
	}
	return &LaTeXCompiler{
		Runner:    runner,
		Program:   program,
		RootDir:   rootDir,
		TailBytes: tailBytes,
	}
}

// Compile compiles texPath into outputDir with two non-interactive passes that
// halt on the first error. A PDF left over from an earlier run is removed first,
// so a failed compilation never leaves a stale artifact behind.
func (c *LaTeXCompiler) Compile(ctx context.Context, texPath, outputDir string) (*CompileResult, error) {
	c.setState(StateIdle)

	texName := filepath.Base(texPath)
	baseName := strings.TrimSuffix(texName, filepath.Ext(texName))
	pdfPath := filepath.Join(outputDir, baseName+".pdf")
	logPath := filepath.Join(outputDir, baseName+".log")

	if err := os.Remove(pdfPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &CompilationError{
			Message: fmt.Sprintf("failed to remove stale artifact %s", pdfPath),
			LogPath: logPath,
			State:   StateIdle,
			Cause:   err,
		}
	}

	args := []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory=" + c.relative(outputDir),
		c.relative(texPath),
	}

	for pass := 1; pass <= compilePasses; pass++ {
		running, failed := passStates(pass)
		c.setState(running)

		res, err := c.Runner.Run(ctx, Command{Dir: c.RootDir, Name: c.Program, Args: args})
		if err != nil {
			c.setState(failed)
			return nil, &CompilationError{
				Message:   fmt.Sprintf("%s could not be run", c.Program),
				Pass:      pass,
				ExitCode:  res.ExitCode,
				LogPath:   logPath,
				LogOutput: Tail(res.Output, c.TailBytes),
				State:     failed,
				Cause:     err,
			}
		}
		if res.ExitCode != 0 {
			c.setState(failed)
			return nil, &CompilationError{
				Message:   fmt.Sprintf("%s exited with status %d", c.Program, res.ExitCode),
				Pass:      pass,
				ExitCode:  res.ExitCode,
				LogPath:   logPath,
				LogOutput: Tail(res.Output, c.TailBytes),
				State:     failed,
			}
		}
	}

	c.setState(StateSuccess)
	return &CompileResult{
		PDFPath: pdfPath,
		LogPath: logPath,
		Passes:  compilePasses,
		State:   StateSuccess,
	}, nil
}

func (c *LaTeXCompiler) setState(s CompileState) {
	if c.OnStateChange != nil {
		c.OnStateChange(s)
	}
}

// relative expresses path relative to RootDir, falling back to path itself.
func (c *LaTeXCompiler) relative(path string) string {
	if c.RootDir == "" {
		return path
	}
	rel, err := filepath.Rel(c.RootDir, path)
	if err != nil {
		return path
	}
	return rel
}

func passStates(pass int) (running, failed CompileState) {
	if pass == 1 {
		return StatePass1Running, StatePass1Failed
	}
	return StatePass2Running, StatePass2Failed
}

// Tail returns at most the last n bytes of s, starting on a rune boundary.
func Tail(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
