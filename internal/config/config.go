// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultResumeFile is the canonical source resume, relative to the repository root
	DefaultResumeFile = "resume.tex"
	// DefaultOffersDir holds one folder per job application
	DefaultOffersDir = "offers"
	// DefaultPostingPattern matches the job posting inside a job folder
	DefaultPostingPattern = "*.txt"
	// DefaultAPIKeyEnv is the environment variable holding the Gemini credential
	DefaultAPIKeyEnv = "GOOGLE_API_KEY"
	// DefaultModel is the Gemini model used for tailoring
	DefaultModel = "gemini-3-pro-preview"
	// DefaultMaxRetries is the number of extra attempts on transient LLM failures
	DefaultMaxRetries = 2
	// DefaultRetryBaseDelay is the backoff before the first retry, doubled afterwards
	DefaultRetryBaseDelay = 2 * time.Second
	// DefaultCompiler is the LaTeX compiler program
	DefaultCompiler = "pdflatex"
	// DefaultLogTailBytes bounds how much compiler output is echoed on failure
	DefaultLogTailBytes = 2000
)

// Config is the run configuration. It is built once at startup and passed
// explicitly to every component.
type Config struct {
	RepoRoot       string `validate:"required"`
	ResumeFile     string `validate:"required"`
	OffersDir      string `validate:"required"`
	PostingPattern string `validate:"required"`
	APIKeyEnv      string `validate:"required"`
	APIKey         string // explicit credential, wins over APIKeyEnv
	Model          string `validate:"required"`
	MaxRetries     int    `validate:"gte=0,lte=10"`
	RetryBaseDelay time.Duration
	Compiler       string `validate:"required"`
	LogTailBytes   int    `validate:"gt=0"`
	Verbose        bool
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
// Pointer fields distinguish "unset" from an explicit zero.
type rawConfig struct {
	Root           string `yaml:"root"`
	ResumeFile     string `yaml:"resume_file"`
	OffersDir      string `yaml:"offers_dir"`
	PostingPattern string `yaml:"posting_pattern"`
	APIKeyEnv      string `yaml:"api_key_env"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
	Compiler       string `yaml:"compiler"`
	LogTailBytes   *int   `yaml:"log_tail_bytes"`
	Verbose        bool   `yaml:"verbose"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		RepoRoot:       ".",
		ResumeFile:     DefaultResumeFile,
		OffersDir:      DefaultOffersDir,
		PostingPattern: DefaultPostingPattern,
		APIKeyEnv:      DefaultAPIKeyEnv,
		Model:          DefaultModel,
		MaxRetries:     DefaultMaxRetries,
		RetryBaseDelay: DefaultRetryBaseDelay,
		Compiler:       DefaultCompiler,
		LogTailBytes:   DefaultLogTailBytes,
	}
}

// Load reads a YAML config file and overlays its values on Default().
// Environment variables in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg := Default()
	if err := raw.applyTo(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *rawConfig) applyTo(cfg *Config) error {
	setString(&cfg.RepoRoot, r.Root)
	setString(&cfg.ResumeFile, r.ResumeFile)
	setString(&cfg.OffersDir, r.OffersDir)
	setString(&cfg.PostingPattern, r.PostingPattern)
	setString(&cfg.APIKeyEnv, r.APIKeyEnv)
	setString(&cfg.APIKey, r.APIKey)
	setString(&cfg.Model, r.Model)
	setString(&cfg.Compiler, r.Compiler)

	if r.MaxRetries != nil {
		cfg.MaxRetries = *r.MaxRetries
	}
	if r.LogTailBytes != nil {
		cfg.LogTailBytes = *r.LogTailBytes
	}
	if r.RetryBaseDelay != "" {
		d, err := time.ParseDuration(r.RetryBaseDelay)
		if err != nil {
			return fmt.Errorf("parse retry_base_delay %q: %w", r.RetryBaseDelay, err)
		}
		cfg.RetryBaseDelay = d
	}
	cfg.Verbose = cfg.Verbose || r.Verbose
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.RetryBaseDelay < 0 {
		return fmt.Errorf("config error: 'retry_base_delay' must be non-negative")
	}
	if _, err := filepath.Match(c.PostingPattern, ""); err != nil {
		return fmt.Errorf("config error: invalid posting pattern %q: %w", c.PostingPattern, err)
	}
	if filepath.IsAbs(c.OffersDir) {
		return fmt.Errorf("config error: 'offers_dir' must be relative to the repository root")
	}

	return nil
}

// Resolve makes RepoRoot absolute. Relative roots are taken from the current directory.
func (c *Config) Resolve() error {
	root, err := filepath.Abs(c.RepoRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve repository root %s: %w", c.RepoRoot, err)
	}
	c.RepoRoot = root
	return nil
}

// LookupAPIKey returns the explicit key if set, otherwise the value of APIKeyEnv.
// An empty result means no credential is available.
func (c *Config) LookupAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(c.APIKeyEnv)
}

// ValidateJobID rejects identifiers that would escape the offers directory.
func ValidateJobID(jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return fmt.Errorf("job identifier is empty")
	}
	if jobID == "." || jobID == ".." || strings.ContainsAny(jobID, `/\`) {
		return fmt.Errorf("invalid job identifier %q: must be a plain folder name", jobID)
	}
	return nil
}

// ResumePath is the canonical source resume.
func (c *Config) ResumePath() string {
	return filepath.Join(c.RepoRoot, c.ResumeFile)
}

// JobDir is the folder holding the posting and generated files for a job.
func (c *Config) JobDir(jobID string) string {
	return filepath.Join(c.RepoRoot, c.OffersDir, jobID)
}

// TailoredPath is the generated LaTeX document for a job.
func (c *Config) TailoredPath(jobID string) string {
	return filepath.Join(c.JobDir(jobID), "resume-"+jobID+filepath.Ext(c.ResumeFile))
}
