// Package ingest turns uploaded report files into the section document the
// rule library evaluates. OCR output arrives as Textract JSON; reports parsed
// upstream to markdown and native DOCX reports are also accepted.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/docmodel"
)

// Ingester converts raw document bytes into a section document. A nil
// heading set accepts every heading the format exposes.
type Ingester interface {
	Ingest(r io.Reader, filename string, headings *assemble.HeadingSet) (*docmodel.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".json": true,
	".md":   true,
	".docx": true,
}

// ForFile returns the appropriate ingester for a filename.
func ForFile(filename string) (Ingester, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &TextractIngester{}, nil
	case ".md", ".markdown":
		return &MarkdownIngester{}, nil
	case ".docx":
		return &DOCXIngester{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func matchHeading(headings *assemble.HeadingSet, text string) bool {
	if headings == nil {
		return true
	}
	return headings.Match(text)
}
