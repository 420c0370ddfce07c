// Package pipeline orchestrates a tailoring run: locate inputs, ask the LLM for a
// tailored resume, write it next to the posting and compile it to PDF.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/validation"
)

// ErrJobDirNotFound is returned when the job folder does not exist.
var ErrJobDirNotFound = errors.New("job folder not found")

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// GeneratorFactory builds the LLM client once the credential is known.
type GeneratorFactory func(ctx context.Context, apiKey string) (llm.Generator, error)

// Compiler turns the tailored source into the final artifact.
type Compiler interface {
	Compile(ctx context.Context, texPath, outputDir string) (*validation.CompileResult, error)
}

// Options holds the collaborators of a run. Only Config is required.
type Options struct {
	Config       *config.Config
	NewGenerator GeneratorFactory
	Compiler     Compiler
	CountPages   func(pdfPath string) (int, error)
	Logger       *slog.Logger
	Out          io.Writer // progress lines
	ErrOut       io.Writer // compiler output on failure
	OnProgress   ProgressCallback
}

// Result describes what a run produced. On a compilation failure it is
// returned alongside the error so callers know where the source was saved.
type Result struct {
	RunID        string
	JobID        string
	PostingPath  string
	TexPath      string
	PDFPath      string
	LogPath      string
	OutputBytes  int
	MarkersValid bool
	Pages        int
}

// Tailor runs the pipeline for one job folder at a time.
type Tailor struct {
	cfg          *config.Config
	newGenerator GeneratorFactory
	compiler     Compiler
	countPages   func(string) (int, error)
	logger       *slog.Logger
	out          io.Writer
	errOut       io.Writer
	onProgress   ProgressCallback
}

// New creates a Tailor, filling unset collaborators with the production ones.
func New(opts Options) (*Tailor, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("pipeline config is required")
	}
	cfg := opts.Config

	t := &Tailor{
		cfg:          cfg,
		newGenerator: opts.NewGenerator,
		compiler:     opts.Compiler,
		countPages:   opts.CountPages,
		logger:       opts.Logger,
		out:          opts.Out,
		errOut:       opts.ErrOut,
		onProgress:   opts.OnProgress,
	}

	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if t.out == nil {
		t.out = os.Stdout
	}
	if t.errOut == nil {
		t.errOut = os.Stderr
	}
	if t.countPages == nil {
		t.countPages = validation.CountPDFPages
	}
	if t.compiler == nil {
		t.compiler = validation.NewLaTeXCompiler(validation.ExecRunner{}, cfg.Compiler, cfg.RepoRoot, cfg.LogTailBytes)
	}
	if t.newGenerator == nil {
		t.newGenerator = geminiFactory(cfg, t.logger)
	}

	return t, nil
}

func geminiFactory(cfg *config.Config, logger *slog.Logger) GeneratorFactory {
	return func(ctx context.Context, apiKey string) (llm.Generator, error) {
		llmCfg := &llm.Config{
			Provider:       llm.ProviderGemini,
			Model:          cfg.Model,
			MaxRetries:     cfg.MaxRetries,
			RetryBaseDelay: cfg.RetryBaseDelay,
		}
		return llm.NewGenerator(ctx, llmCfg, apiKey, llm.WithLogger(logger))
	}
}

// emitProgress calls the progress callback if configured
func (t *Tailor) emitProgress(runID, step, category, message string) {
	if t.onProgress != nil {
		t.onProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
		})
	}
}

// Run tailors the resume for jobID. Preconditions (job folder, credential,
// posting) are checked before the LLM is contacted; nothing is written unless
// the model returned a document. A compilation failure keeps the .tex on disk.
//
//nolint:errcheck // progress output to the terminal; errors are not recoverable
func (t *Tailor) Run(ctx context.Context, jobID string) (*Result, error) {
	if err := config.ValidateJobID(jobID); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := t.logger.With("run_id", runID, "job", jobID)
	result := &Result{RunID: runID, JobID: jobID}

	jobDir := t.cfg.JobDir(jobID)
	if info, err := os.Stat(jobDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrJobDirNotFound, jobDir)
	}

	apiKey := t.cfg.LookupAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s environment variable is not set", llm.ErrMissingAPIKey, t.cfg.APIKeyEnv)
	}

	// Step 1: read inputs
	resumePath := t.cfg.ResumePath()
	resume, err := ingestion.ReadDocument(resumePath)
	if err != nil {
		return nil, err
	}

	postingPath, err := ingestion.FindPosting(jobDir, t.cfg.PostingPattern, logger)
	if err != nil {
		return nil, err
	}
	result.PostingPath = postingPath
	t.emitProgress(runID, "locate_posting", "ingestion", postingPath)

	posting, err := ingestion.ReadDocument(postingPath)
	if err != nil {
		return nil, err
	}

	// Step 2: build the prompt
	envelope := prompts.BuildTailoringEnvelope(resume, posting)
	t.emitProgress(runID, "build_prompt", "llm", prompts.PromptVersion)
	logger.Debug("prompt assembled",
		"prompt_version", prompts.PromptVersion,
		"system_bytes", len(envelope.System),
		"user_bytes", len(envelope.User),
	)
	if t.cfg.Verbose {
		observability.NewPrinter(t.out).PrintRequest(&observability.RequestInfo{
			JobID:         jobID,
			RunID:         runID,
			Model:         t.cfg.Model,
			PromptVersion: prompts.PromptVersion,
			ResumePath:    resumePath,
			PostingPath:   postingPath,
			SystemBytes:   len(envelope.System),
			UserBytes:     len(envelope.User),
		})
	}

	// Step 3: call the model
	fmt.Fprintf(t.out, "Calling %s to tailor CV for '%s'...\n", t.cfg.Model, jobID)
	generator, err := t.newGenerator(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() {
		if cerr := generator.Close(); cerr != nil {
			logger.Debug("failed to close LLM client", "error", cerr)
		}
	}()

	raw, err := generator.Generate(ctx, envelope.System, envelope.User)
	if err != nil {
		return nil, fmt.Errorf("failed to tailor resume: %w", err)
	}
	t.emitProgress(runID, "generate", "llm", fmt.Sprintf("%d bytes", len(raw)))

	// Step 4: sanitize and check structure (soft)
	tailored := llm.StripCodeFences(raw)
	result.OutputBytes = len(tailored)
	report := validation.CheckDocumentMarkers(tailored)
	result.MarkersValid = report.Valid()
	if !report.Valid() {
		logger.Warn("generated LaTeX may be invalid, saving anyway for manual inspection",
			"missing", report.Missing(),
		)
	}
	t.emitProgress(runID, "validate_markers", "validation", fmt.Sprintf("valid=%t", report.Valid()))

	// Step 5: write the tailored source
	texPath := t.cfg.TailoredPath(jobID)
	if err := os.WriteFile(texPath, []byte(tailored), 0644); err != nil {
		return nil, fmt.Errorf("failed to write tailored resume %s: %w", texPath, err)
	}
	result.TexPath = texPath
	fmt.Fprintf(t.out, "Tailored .tex saved: %s\n", texPath)
	t.emitProgress(runID, "write_document", "ingestion", texPath)

	// Step 6: compile
	fmt.Fprintln(t.out, "Compiling PDF...")
	compiled, err := t.compiler.Compile(ctx, texPath, jobDir)
	if err != nil {
		t.reportCompileFailure(logger, result, err)
		t.printSummary(result, false)
		return result, err
	}
	result.PDFPath = compiled.PDFPath
	result.LogPath = compiled.LogPath
	t.emitProgress(runID, "compile", "compile", compiled.PDFPath)

	pages, err := t.countPages(compiled.PDFPath)
	if err != nil {
		logger.Warn("could not count PDF pages", "pdf", compiled.PDFPath, "error", err)
		fmt.Fprintf(t.out, "PDF ready: %s\n", compiled.PDFPath)
	} else {
		result.Pages = pages
		fmt.Fprintf(t.out, "PDF ready: %s (%d %s)\n", compiled.PDFPath, pages, plural(pages, "page", "pages"))
	}

	t.printSummary(result, true)
	return result, nil
}

//nolint:errcheck // writing to stderr; errors are not recoverable
func (t *Tailor) reportCompileFailure(logger *slog.Logger, result *Result, err error) {
	var compErr *validation.CompilationError
	if !errors.As(err, &compErr) {
		logger.Error("PDF compilation failed", "error", err)
		return
	}

	result.LogPath = compErr.LogPath
	logger.Error("PDF compilation failed",
		"pass", compErr.Pass,
		"exit_code", compErr.ExitCode,
		"log", compErr.LogPath,
	)
	fmt.Fprintf(t.errOut, "Error: %s pass %d failed.\n", t.cfg.Compiler, compErr.Pass)
	fmt.Fprintf(t.errOut, "Check the log: %s\n", compErr.LogPath)
	if compErr.LogOutput != "" {
		fmt.Fprintln(t.errOut, compErr.LogOutput)
	}
	fmt.Fprintln(t.out, "PDF compilation failed. The .tex file is saved for manual inspection.")
}

func (t *Tailor) printSummary(result *Result, compiled bool) {
	if !t.cfg.Verbose {
		return
	}
	observability.NewPrinter(t.out).PrintRunSummary(&observability.RunSummary{
		JobID:        result.JobID,
		RunID:        result.RunID,
		OutputBytes:  result.OutputBytes,
		MarkersValid: result.MarkersValid,
		TexPath:      result.TexPath,
		PDFPath:      result.PDFPath,
		LogPath:      result.LogPath,
		Pages:        result.Pages,
		Compiled:     compiled,
	})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
