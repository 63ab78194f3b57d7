package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/docmodel"
)

// DOCXIngester handles native .docx reports. Heading-styled paragraphs open
// sections and body tables attach to the open section.
type DOCXIngester struct{}

func (p *DOCXIngester) Ingest(r io.Reader, filename string, headings *assemble.HeadingSet) (*docmodel.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "proofd-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &docmodel.Document{Key: filename, Sections: []*docmodel.Section{}}
	var current *docmodel.Section

	for _, item := range parsed.Document.Body.Items {
		switch node := item.(type) {
		case *docx.Paragraph:
			text := paragraphText(node)
			if text == "" {
				continue
			}
			opens := isHeadingStyle(node)
			if headings != nil {
				opens = headings.Match(text)
			}
			if opens {
				current = &docmodel.Section{
					Name:       text,
					Paragraphs: []string{},
					Tables:     []*docmodel.Table{},
				}
				doc.Sections = append(doc.Sections, current)
				continue
			}
			if current != nil {
				current.Paragraphs = append(current.Paragraphs, text)
			}

		case *docx.Table:
			if current == nil {
				continue
			}
			if tbl := docxTable(node); tbl != nil {
				current.Tables = append(current.Tables, tbl)
			}
		}
	}
	return doc, nil
}

func isHeadingStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	return strings.HasPrefix(style, "heading")
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxTable(t *docx.Table) *docmodel.Table {
	var rows [][]string
	maxCols := 0
	for _, tr := range t.TableRows {
		var cells []string
		for _, tc := range tr.TableCells {
			var cell strings.Builder
			for _, para := range tc.Paragraphs {
				if txt := paragraphText(para); txt != "" {
					if cell.Len() > 0 {
						cell.WriteByte(' ')
					}
					cell.WriteString(txt)
				}
			}
			cells = append(cells, cell.String())
		}
		if len(cells) > maxCols {
			maxCols = len(cells)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil
	}
	for i, row := range rows {
		for len(row) < maxCols {
			row = append(row, "")
		}
		rows[i] = row
	}
	tbl := &docmodel.Table{Rows: rows}
	for _, cell := range rows[0] {
		if cell != "" {
			tbl.Header = cell
			break
		}
	}
	return tbl
}
