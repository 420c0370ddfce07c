package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/validation"
	"github.com/spf13/cobra"
)

var (
	tailorConfigPath string
	tailorRoot       string
	tailorModel      string
	tailorAPIKey     string
	tailorVerbose    bool
)

func init() {
	// Config file flag (processed first)
	rootCmd.Flags().StringVar(&tailorConfigPath, "config", "", "Path to a YAML config file (values can be overridden by other flags)")

	rootCmd.Flags().StringVar(&tailorRoot, "root", "", "Repository root holding resume.tex and offers/ (defaults to the current directory)")
	rootCmd.Flags().StringVarP(&tailorModel, "model", "m", "", "Gemini model name (defaults to "+config.DefaultModel+")")
	rootCmd.Flags().BoolVarP(&tailorVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GOOGLE_API_KEY
	rootCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GOOGLE_API_KEY env var)")
}

func runTailor(cmd *cobra.Command, args []string) error {
	// arguments are valid past this point; further errors are not usage errors
	cmd.SilenceUsage = true

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	if cfg.Verbose && tailorConfigPath != "" {
		logger.Debug("loaded config", "path", tailorConfigPath)
	}

	compiler := validation.NewLaTeXCompiler(validation.ExecRunner{}, cfg.Compiler, cfg.RepoRoot, cfg.LogTailBytes)
	compiler.OnStateChange = func(state validation.CompileState) {
		logger.Debug("compiler state", "state", state)
	}

	tailor, err := pipeline.New(pipeline.Options{
		Config:   cfg,
		Compiler: compiler,
		Logger:   logger,
		Out:      cmd.OutOrStdout(),
		ErrOut:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	_, err = tailor.Run(cmd.Context(), args[0])
	return err
}

// buildConfig merges the config file, if any, with the flags that were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if tailorConfigPath != "" {
		loaded, err := config.Load(tailorConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("root") {
		cfg.RepoRoot = tailorRoot
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = tailorModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = tailorAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = tailorVerbose
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
