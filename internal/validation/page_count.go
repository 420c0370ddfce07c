package validation

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CountPDFPages counts the number of pages in a PDF file
func CountPDFPages(pdfPath string) (pages int, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = &Error{Message: fmt.Sprintf("failed to read PDF %s: %v", pdfPath, r)}
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return 0, &Error{
			Message: fmt.Sprintf("failed to open PDF %s", pdfPath),
			Cause:   err,
		}
	}
	defer func() { _ = f.Close() }()

	return r.NumPage(), nil
}
