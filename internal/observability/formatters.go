// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// RequestInfo describes the prompt about to be sent to the model.
type RequestInfo struct {
	JobID         string
	RunID         string
	Model         string
	PromptVersion string
	ResumePath    string
	PostingPath   string
	SystemBytes   int
	UserBytes     int
}

// RunSummary describes the outcome of a tailoring run.
type RunSummary struct {
	JobID        string
	RunID        string
	OutputBytes  int
	MarkersValid bool
	TexPath      string
	PDFPath      string
	LogPath      string
	Pages        int
	Compiled     bool
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			// keep the end: for paths the file name matters most
			line = "..." + string(runes[len(runes)-(boxWidth-7):])
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequest outputs what is about to be sent to the LLM.
func (p *Printer) PrintRequest(info *RequestInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:      %s\n", info.JobID))
	sb.WriteString(fmt.Sprintf("Run:      %s\n", info.RunID))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", info.Model))
	sb.WriteString(fmt.Sprintf("Prompt:   %s\n", info.PromptVersion))
	sb.WriteString(fmt.Sprintf("Resume:   %s\n", info.ResumePath))
	sb.WriteString(fmt.Sprintf("Posting:  %s\n", info.PostingPath))
	sb.WriteString(fmt.Sprintf("Size:     system %s, user %s", formatBytes(info.SystemBytes), formatBytes(info.UserBytes)))

	p.printBox("LLM REQUEST", sb.String())
}

// PrintRunSummary outputs the generated files and check results.
func (p *Printer) PrintRunSummary(summary *RunSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:      %s\n", summary.JobID))
	sb.WriteString(fmt.Sprintf("Run:      %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Output:   %s\n", formatBytes(summary.OutputBytes)))
	sb.WriteString(fmt.Sprintf("Markers:  %s\n", checkMark(summary.MarkersValid)))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", summary.TexPath))

	switch {
	case summary.Compiled:
		sb.WriteString(fmt.Sprintf("PDF:      %s\n", summary.PDFPath))
		if summary.Pages > 0 {
			sb.WriteString(fmt.Sprintf("Pages:    %d\n", summary.Pages))
		}
	case summary.LogPath != "":
		sb.WriteString(fmt.Sprintf("PDF:      %s\n", checkMark(false)))
		sb.WriteString(fmt.Sprintf("Log:      %s\n", summary.LogPath))
	}

	p.printBox("TAILORING RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

func checkMark(ok bool) string {
	if ok {
		return "✓ ok"
	}
	return "✗ failed"
}

func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}
