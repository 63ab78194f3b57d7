package assemble

import (
	"regexp"
	"strings"

	"github.com/metrosafety/proofd/internal/docmodel"
	"github.com/metrosafety/proofd/internal/ocr"
)

// Numbered sub-headings ("1.1 Areas Identified...", "3.0 Building
// Description") and appendix headings are recognised without being listed in
// the configured vocabulary.
var (
	numberedHeadingRe = regexp.MustCompile(`^\d+\.\d+(\.\d+)?\s+\S.*$`)
	appendixHeadingRe = regexp.MustCompile(`^APPENDIX\s+[A-Z]+\s*-\s*\S.*$`)
)

// HeadingSet is the fixed vocabulary of recognised section headings.
type HeadingSet struct {
	exact map[string]bool
}

// NewHeadingSet builds a heading set from the configured vocabulary strings.
func NewHeadingSet(headings []string) *HeadingSet {
	hs := &HeadingSet{exact: make(map[string]bool, len(headings))}
	for _, h := range headings {
		if t := strings.TrimSpace(h); t != "" {
			hs.exact[t] = true
		}
	}
	return hs
}

// Match reports whether a trimmed line of text opens a new section.
func (hs *HeadingSet) Match(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if hs != nil && hs.exact[trimmed] {
		return true
	}
	return numberedHeadingRe.MatchString(trimmed) || appendixHeadingRe.MatchString(trimmed)
}

// BuildDocument assembles the full document model for one analysis result.
func BuildDocument(key string, res *ocr.AnalysisResult, headings *HeadingSet) *docmodel.Document {
	idx := NewIndex(res)
	return &docmodel.Document{
		Key:      key,
		Sections: BuildSections(idx, headings),
	}
}

// BuildSections walks the document's lines in page order and assigns
// paragraphs and reconstructed tables to the section opened by the most
// recent heading line. Text before the first recognised heading is not
// retained, and a section opened on one page stays current on the next
// until a new heading appears.
//
// A table attaches to the section of the line that visually precedes it:
// while a section is open, every not-yet-attached table whose top coordinate
// is strictly below the current line's attaches before the line is appended.
// This can misattribute a table that sits above the text that conceptually
// follows it, and does not handle multi-column layouts; downstream consumers
// depend on the existing attachment behaviour, so it is preserved as is.
func BuildSections(idx *Index, headings *HeadingSet) []*docmodel.Section {
	sections := []*docmodel.Section{}
	var current *docmodel.Section

	for _, page := range idx.Pages() {
		tables := idx.Tables(page)
		built := make([]*docmodel.Table, len(tables))
		for i, tbl := range tables {
			built[i] = ReconstructTable(idx, tbl)
		}
		cursor := 0

		for _, line := range idx.Lines(page) {
			trimmed := strings.TrimSpace(line.Text)
			if trimmed == "" {
				continue
			}

			if headings.Match(trimmed) {
				current = &docmodel.Section{
					Name:       trimmed,
					Paragraphs: []string{},
					Tables:     []*docmodel.Table{},
				}
				sections = append(sections, current)
				continue
			}
			if current == nil {
				continue
			}

			lineTop := line.Geometry.BoundingBox.Top
			for cursor < len(tables) && lineTop < tables[cursor].Geometry.BoundingBox.Top {
				current.Tables = append(current.Tables, built[cursor])
				cursor++
			}
			current.Paragraphs = append(current.Paragraphs, trimmed)
		}

		// Tables still unattached after the page's last line go to the last
		// section opened; with no section open they are dropped.
		if current != nil {
			for ; cursor < len(tables); cursor++ {
				current.Tables = append(current.Tables, built[cursor])
			}
		}
	}

	return sections
}
