// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MinTextLength is the shortest extraction still treated as a usable resume.
// Anything shorter is routed to the remote-file fallback.
const MinTextLength = 50

var ErrExtraction = errors.New("pdf text extraction failed")

// ExtractionResult holds the output from a PDF text extraction.
type ExtractionResult struct {
	Text      string
	PageCount int
}

// Extract reads every page in document order and returns the trimmed text.
// Pages are concatenated as the parser emits them, with no separator added.
// Parser failures are reported as ErrExtraction, never as a panic, so callers
// can tell "could not read" apart from "read but empty".
func Extract(data []byte) (res *ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	pageCount := reader.NumPage()
	var text strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		text.WriteString(pageText)
	}

	return &ExtractionResult{
		Text:      strings.TrimSpace(text.String()),
		PageCount: pageCount,
	}, nil
}

// ValidatePDF checks the %PDF- magic bytes.
func ValidatePDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// IsSufficient reports whether extracted text is long enough to send as text.
// Length is counted in characters so non-Latin resumes are not favoured.
func IsSufficient(text string) bool {
	return utf8.RuneCountInString(text) >= MinTextLength
}
