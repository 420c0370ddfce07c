package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDocumentMarkers(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantValid   bool
		wantMissing []string
	}{
		{
			name:      "complete document",
			text:      "\\documentclass{article}\n\\begin{document}\nHi\n\\end{document}\n",
			wantValid: true,
		},
		{
			name:        "missing end",
			text:        "\\begin{document}\nHi",
			wantMissing: []string{EndDocumentMarker},
		},
		{
			name:        "missing begin",
			text:        "Hi\n\\end{document}",
			wantMissing: []string{BeginDocumentMarker},
		},
		{
			name:        "empty",
			text:        "",
			wantMissing: []string{BeginDocumentMarker, EndDocumentMarker},
		},
		{
			name:      "markers in reverse order still count",
			text:      "\\end{document} junk \\begin{document}",
			wantValid: true,
		},
		{
			name:        "similar but different marker",
			text:        "\\begin{documents}\n\\end{document}",
			wantMissing: []string{BeginDocumentMarker},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := CheckDocumentMarkers(tt.text)
			assert.Equal(t, tt.wantValid, report.Valid())
			assert.Equal(t, tt.wantMissing, report.Missing())
			assert.Equal(t, tt.wantValid, HasDocumentMarkers(tt.text))
		})
	}
}

func TestHasDocumentMarkers_LargeSurroundingContent(t *testing.T) {
	filler := strings.Repeat("% comment line\n", 100000)
	text := filler + BeginDocumentMarker + filler + EndDocumentMarker + filler

	assert.True(t, HasDocumentMarkers(text))
	assert.False(t, HasDocumentMarkers(filler+BeginDocumentMarker+filler))
}
