// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("(?i)^```(?:latex|tex)?[ \\t]*\\r?\\n")
	closingFence = regexp.MustCompile("\\r?\\n```[ \\t]*$")
)

// StripCodeFences removes markdown code fences the model may wrap around a document.
// LLMs often wrap output in ```latex ... ``` blocks even when instructed not to.
// The result is a fixpoint: applying StripCodeFences again returns it unchanged.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	for {
		next := openingFence.ReplaceAllString(text, "")
		next = closingFence.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == text {
			return text
		}
		text = next
	}
}
