package validation

import "strings"

const (
	// BeginDocumentMarker opens the body of a LaTeX document
	BeginDocumentMarker = `\begin{document}`
	// EndDocumentMarker closes the body of a LaTeX document
	EndDocumentMarker = `\end{document}`
)

// MarkerReport records which document boundary markers were found.
type MarkerReport struct {
	HasBegin bool
	HasEnd   bool
}

// Valid is true when both markers are present.
func (r MarkerReport) Valid() bool {
	return r.HasBegin && r.HasEnd
}

// Missing lists the markers that were not found.
func (r MarkerReport) Missing() []string {
	var missing []string
	if !r.HasBegin {
		missing = append(missing, BeginDocumentMarker)
	}
	if !r.HasEnd {
		missing = append(missing, EndDocumentMarker)
	}
	return missing
}

// CheckDocumentMarkers looks for the begin and end document markers anywhere in text.
// This is a soft check; pdflatex remains the real gate.
func CheckDocumentMarkers(text string) MarkerReport {
	return MarkerReport{
		HasBegin: strings.Contains(text, BeginDocumentMarker),
		HasEnd:   strings.Contains(text, EndDocumentMarker),
	}
}

// HasDocumentMarkers reports whether text contains both document markers.
func HasDocumentMarkers(text string) bool {
	return CheckDocumentMarkers(text).Valid()
}
