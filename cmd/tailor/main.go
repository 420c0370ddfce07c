// Package main provides the tailor command, which rewrites the canonical LaTeX
// resume for one job posting and compiles the result to PDF.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailor <job-id>",
	Short: "Tailor the LaTeX resume to a job posting",
	Long: `Reads resume.tex and the job posting in offers/<job-id>/, asks Gemini to adapt the
resume content to the posting, writes offers/<job-id>/resume-<job-id>.tex and
compiles it to PDF with pdflatex.

Configuration can be loaded from a YAML file using --config. Command-line flags override config file values.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE:          runTailor,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
