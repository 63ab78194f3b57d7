// Package pdfqa answers ad-hoc questions about a stored PDF report. The PDF
// text is extracted locally and handed to the judge with the question.
package pdfqa

import (
	"context"
	"fmt"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Asker is the judge surface this package needs.
type Asker interface {
	AskWithSystem(ctx context.Context, system, prompt string) (string, error)
}

// ObjectStore fetches the PDF bytes by key.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

const systemPrompt = "You answer questions about building safety report documents. " +
	"Base your answer only on the document text provided. " +
	"If the document does not contain the answer, say so."

// Keep prompts within the judge's context window. Reports rarely exceed
// this; anything longer is cut at the tail.
const maxDocumentChars = 200_000

// Service resolves PDF questions end to end.
type Service struct {
	blobs ObjectStore
	judge Asker
}

func NewService(blobs ObjectStore, judge Asker) *Service {
	return &Service{blobs: blobs, judge: judge}
}

// Answer fetches the PDF at key, extracts its text, and asks the question.
func (s *Service) Answer(ctx context.Context, key, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("empty question")
	}
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch pdf: %w", err)
	}
	if data == nil {
		return "", fmt.Errorf("pdf not found: %s", key)
	}

	text, err := ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text in %s", key)
	}
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	prompt := fmt.Sprintf("Document text:\n\n%s\n\nQuestion: %s", text, question)
	return s.judge.AskWithSystem(ctx, systemPrompt, prompt)
}

// ExtractText pulls the plain text from PDF bytes, pages separated by form
// feeds.
func ExtractText(data []byte) (string, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "proofd-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
