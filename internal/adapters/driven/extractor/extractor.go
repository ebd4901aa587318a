package extractor

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/veridian-labs/docguard-core/internal/core/domain"
	"github.com/veridian-labs/docguard-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor converts uploaded document bytes to plain text. PDF pages are
// concatenated in page order with no separator between pages; plain-text
// uploads pass through unchanged.
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".txt", ".text":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: not valid UTF-8", domain.ErrExtractionFailed)
		}
		return string(data), nil
	default:
		return "", domain.ErrUnsupportedFile
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	return buf.String(), nil
}
