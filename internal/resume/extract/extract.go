// Package extract pulls plain text out of uploaded résumé documents.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZIP  = "application/zip"
)

// ErrUnsupportedFormat is returned for documents that are neither PDF nor DOCX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError wraps a failure of the underlying document reader.
type ExtractionError struct {
	Kind Kind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error parsing %s: %v", strings.ToUpper(string(e.Kind)), e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ParseKind converts a bare extension such as "PDF" or ".docx" into a Kind.
func ParseKind(ext string) (Kind, error) {
	switch Kind(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")) {
	case KindPDF:
		return KindPDF, nil
	case KindDOCX:
		return KindDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// KindFromFilename resolves the document kind from a file name extension.
func KindFromFilename(name string) (Kind, error) {
	ext := filepath.Ext(strings.TrimSpace(name))
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ParseKind(ext)
}

// Extractor turns document bytes into raw text.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the raw text of the document. The content is sniffed first
// so a renamed file of another type is rejected as unsupported.
func (x *Extractor) Extract(data []byte, kind Kind) (string, error) {
	if err := sniff(data, kind); err != nil {
		return "", err
	}

	switch kind {
	case KindPDF:
		return pdfText(data)
	case KindDOCX:
		return docxText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}

func sniff(data []byte, kind Kind) error {
	if len(data) == 0 {
		return &ExtractionError{Kind: kind, Err: errors.New("document is empty")}
	}

	detected := mimetype.Detect(data)

	var expected []string
	switch kind {
	case KindPDF:
		expected = []string{mimePDF}
	case KindDOCX:
		expected = []string{mimeDOCX, mimeZIP}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}

	for m := detected; m != nil; m = m.Parent() {
		for _, want := range expected {
			if m.Is(want) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: content is %s, not %s", ErrUnsupportedFormat, detected.String(), kind)
}
