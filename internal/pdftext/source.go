// Package pdftext retrieves the plain text layer of PDF documents.
//
// A Source yields one string per page, in page order. Implementations:
//
//   - NativeSource decodes the PDF in-process.
//   - PdftotextSource shells out to poppler's pdftotext.
//   - CachedSource memoises another Source by file content.
//
// Probe validates a document with pdfcpu before its text is read.
package pdftext

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrDecode is returned when a document cannot be parsed.
	ErrDecode = errors.New("pdf decode failed")

	// ErrNoTextLayer is returned when a document has pages but no text.
	ErrNoTextLayer = errors.New("pdf has no text layer")

	// ErrInvalidPDF is returned by Probe for documents that fail validation.
	ErrInvalidPDF = errors.New("invalid pdf")
)

// Source yields the page texts of a document.
type Source interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, path string) ([]string, error)

// PageTexts calls f(ctx, path).
func (f SourceFunc) PageTexts(ctx context.Context, path string) ([]string, error) {
	return f(ctx, path)
}

// JoinPages concatenates page texts in order, each terminated by a newline.
func JoinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// Text reads all pages of path from src and joins them.
func Text(ctx context.Context, src Source, path string) (text string, pages int, err error) {
	texts, err := src.PageTexts(ctx, path)
	if err != nil {
		return "", 0, err
	}
	return JoinPages(texts), len(texts), nil
}

func allBlank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}
