package ingest

import (
	"fmt"
	"io"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/docmodel"
	"github.com/metrosafety/proofd/internal/ocr"
)

// TextractIngester handles OCR analysis JSON.
type TextractIngester struct{}

func (p *TextractIngester) Ingest(r io.Reader, filename string, headings *assemble.HeadingSet) (*docmodel.Document, error) {
	res, err := ocr.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode ocr result: %w", err)
	}
	return assemble.BuildDocument(filename, res, headings), nil
}
