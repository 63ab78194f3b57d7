package ingest

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/docmodel"
)

// MarkdownIngester handles reports already converted to markdown by the
// upstream parsing service. Headings open sections, pipe tables become
// section tables, and everything else becomes paragraphs.
type MarkdownIngester struct{}

func (p *MarkdownIngester) Ingest(r io.Reader, filename string, headings *assemble.HeadingSet) (*docmodel.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	doc := &docmodel.Document{Key: filename, Sections: []*docmodel.Section{}}
	var current *docmodel.Section

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(src)))
			if title == "" {
				continue
			}
			if headings != nil && !headings.Match(title) {
				// Unlisted headings continue the open section as plain text.
				if current != nil {
					current.Paragraphs = append(current.Paragraphs, title)
				}
				continue
			}
			current = &docmodel.Section{
				Name:       title,
				Paragraphs: []string{},
				Tables:     []*docmodel.Table{},
			}
			doc.Sections = append(doc.Sections, current)

		case *east.Table:
			if current == nil {
				continue
			}
			if tbl := markdownTable(node, src); tbl != nil {
				current.Tables = append(current.Tables, tbl)
			}

		default:
			if current == nil {
				continue
			}
			if t := blockText(n, src); t != "" {
				current.Paragraphs = append(current.Paragraphs, t)
			}
		}
	}
	return doc, nil
}

func markdownTable(node *east.Table, src []byte) *docmodel.Table {
	var rows [][]string
	maxCols := 0
	for r := node.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		switch r.(type) {
		case *east.TableHeader, *east.TableRow:
			for c := r.FirstChild(); c != nil; c = c.NextSibling() {
				cells = append(cells, strings.TrimSpace(string(c.Text(src))))
			}
		default:
			continue
		}
		if len(cells) > maxCols {
			maxCols = len(cells)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil
	}
	// Pad short rows so every row has the table's full width.
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

// blockText gets the text content of a goldmark AST node, flattening nested
// inlines.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(blockText(c, src))
			if _, ok := c.(*ast.ListItem); ok {
				buf.WriteByte(' ')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
