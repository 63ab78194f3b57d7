// Package docmodel holds the parsed document model: named sections
// containing ordered paragraphs and 2-D tables. The serialized shape is a
// stable contract — downstream rule sets key into "sections", "name",
// "paragraphs", "tables" and "rows" exactly.
package docmodel

import "strings"

// Table is an ordered grid of cell text reconstructed from one detected
// table fragment. Every row has the same length.
type Table struct {
	ID     string     `json:"id,omitempty"`
	Page   int        `json:"page,omitempty"`
	Header string     `json:"header,omitempty"`
	Rows   [][]string `json:"rows"`
}

// Section is a named region of a document in reading order.
type Section struct {
	Name       string   `json:"name"`
	Paragraphs []string `json:"paragraphs"`
	Tables     []*Table `json:"tables"`
}

// Document is the ordered sequence of sections for one source file.
// It is the immutable result of one parse pass; extraction rules read it
// and never modify it.
type Document struct {
	Key      string     `json:"key,omitempty"`
	Sections []*Section `json:"sections"`
}

// FindSection returns the first section whose name matches exactly, or nil.
func (d *Document) FindSection(name string) *Section {
	for _, sec := range d.Sections {
		if sec.Name == name {
			return sec
		}
	}
	return nil
}

// FindSectionPrefix returns the first section whose name starts with prefix,
// or nil. First-match-in-document-order resolves ambiguous prefixes.
func (d *Document) FindSectionPrefix(prefix string) *Section {
	for _, sec := range d.Sections {
		if strings.HasPrefix(sec.Name, prefix) {
			return sec
		}
	}
	return nil
}

// FindSectionFold returns the first section whose trimmed name matches
// case-insensitively, or nil.
func (d *Document) FindSectionFold(name string) *Section {
	for _, sec := range d.Sections {
		if strings.EqualFold(strings.TrimSpace(sec.Name), name) {
			return sec
		}
	}
	return nil
}

// SectionsWithPrefix returns every section whose name starts with prefix,
// in document order.
func (d *Document) SectionsWithPrefix(prefix string) []*Section {
	var out []*Section
	for _, sec := range d.Sections {
		if strings.HasPrefix(sec.Name, prefix) {
			out = append(out, sec)
		}
	}
	return out
}

// HasContent reports whether the section carries any data: at least one
// table with rows, or one non-blank paragraph.
func (s *Section) HasContent() bool {
	for _, tbl := range s.Tables {
		if len(tbl.Rows) > 0 {
			return true
		}
	}
	for _, p := range s.Paragraphs {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// ParagraphText joins the section's non-blank paragraphs with single spaces.
func (s *Section) ParagraphText() string {
	var parts []string
	for _, p := range s.Paragraphs {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Cell returns the cell at (row, col) or "" when the coordinates fall
// outside the grid.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
