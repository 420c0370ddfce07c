package llm

import (
	"testing"
)

const sampleDoc = "\\documentclass{article}\n\\begin{document}\nHello\n\\end{document}"

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "latex code block",
			input:    "```latex\n" + sampleDoc + "\n```",
			expected: sampleDoc,
		},
		{
			name:     "tex code block",
			input:    "```tex\n" + sampleDoc + "\n```\n",
			expected: sampleDoc,
		},
		{
			name:     "uppercase language tag",
			input:    "```LaTeX\n" + sampleDoc + "\n```",
			expected: sampleDoc,
		},
		{
			name:     "generic code block",
			input:    "```\n" + sampleDoc + "\n```",
			expected: sampleDoc,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\n  ```latex  \n" + sampleDoc + "\n```   \n\n",
			expected: sampleDoc,
		},
		{
			name:     "CRLF line endings",
			input:    "```latex\r\n" + sampleDoc + "\r\n```",
			expected: sampleDoc,
		},
		{
			name:     "plain document",
			input:    sampleDoc,
			expected: sampleDoc,
		},
		{
			name:     "opening fence only",
			input:    "```latex\n" + sampleDoc,
			expected: sampleDoc,
		},
		{
			name:     "inner fences are preserved",
			input:    "\\begin{document}\n```\ncode\n```\ntext\n\\end{document}",
			expected: "\\begin{document}\n```\ncode\n```\ntext\n\\end{document}",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripCodeFences(tt.input)
			if result != tt.expected {
				t.Errorf("StripCodeFences() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestStripCodeFences_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"```",
		"``````",
		"```latex\n```latex\n" + sampleDoc + "\n```\n```",
		"```\n\n```\n",
		"  text with ``` in the middle  ",
		"```python\nprint(1)\n```",
		sampleDoc,
		"```tex\n   \n" + sampleDoc,
	}

	for _, in := range inputs {
		once := StripCodeFences(in)
		twice := StripCodeFences(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestStripCodeFences_MatchesUnwrapped(t *testing.T) {
	for _, tag := range []string{"", "latex", "tex", "TEX"} {
		wrapped := "```" + tag + "\n" + sampleDoc + "\n```"
		if got, want := StripCodeFences(wrapped), StripCodeFences(sampleDoc); got != want {
			t.Errorf("tag %q: got %q, want %q", tag, got, want)
		}
	}
}
