package ingest

import (
	"strings"
	"testing"

	"github.com/metrosafety/proofd/internal/assemble"
)

const sampleMarkdown = `# Executive Summary

The premises were inspected on 12 January 2024.
Overall the standard of fire safety is reasonable.

# Site Photographs

# Significant Findings and Action Plan

| | Finding 1 |
|---|---|
| Observation | Fire door wedged open |
| Target Date | 12/01/2024 |

Some closing remarks.
`

func mdHeadings() *assemble.HeadingSet {
	return assemble.NewHeadingSet([]string{
		"Executive Summary",
		"Significant Findings and Action Plan",
	})
}

func TestMarkdownIngest_Sections(t *testing.T) {
	ing := &MarkdownIngester{}
	doc, err := ing.Ingest(strings.NewReader(sampleMarkdown), "report.md", mdHeadings())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.Key != "report.md" {
		t.Errorf("key = %q", doc.Key)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Name != "Executive Summary" {
		t.Errorf("section 0 = %q", doc.Sections[0].Name)
	}
	if doc.Sections[1].Name != "Significant Findings and Action Plan" {
		t.Errorf("section 1 = %q", doc.Sections[1].Name)
	}
}

func TestMarkdownIngest_UnlistedHeadingBecomesParagraph(t *testing.T) {
	ing := &MarkdownIngester{}
	doc, err := ing.Ingest(strings.NewReader(sampleMarkdown), "report.md", mdHeadings())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	// "Site Photographs" is not in the vocabulary; it continues the
	// Executive Summary section as text.
	found := false
	for _, p := range doc.Sections[0].Paragraphs {
		if p == "Site Photographs" {
			found = true
		}
	}
	if !found {
		t.Fatalf("unlisted heading missing from paragraphs: %v", doc.Sections[0].Paragraphs)
	}
}

func TestMarkdownIngest_Paragraphs(t *testing.T) {
	ing := &MarkdownIngester{}
	doc, err := ing.Ingest(strings.NewReader(sampleMarkdown), "report.md", mdHeadings())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	want := "The premises were inspected on 12 January 2024. Overall the standard of fire safety is reasonable."
	if len(doc.Sections[0].Paragraphs) == 0 || doc.Sections[0].Paragraphs[0] != want {
		t.Fatalf("paragraphs = %v", doc.Sections[0].Paragraphs)
	}
}

func TestMarkdownIngest_Table(t *testing.T) {
	ing := &MarkdownIngester{}
	doc, err := ing.Ingest(strings.NewReader(sampleMarkdown), "report.md", mdHeadings())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	sfap := doc.Sections[1]
	if len(sfap.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(sfap.Tables))
	}
	tbl := sfap.Tables[0]
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3: %v", len(tbl.Rows), tbl.Rows)
	}
	if tbl.Cell(1, 0) != "Observation" || tbl.Cell(1, 1) != "Fire door wedged open" {
		t.Errorf("row 1 = %v", tbl.Rows[1])
	}
	// Header row's first cell is blank, so the header comes from the
	// first non-empty cell.
	if tbl.Header != "Finding 1" {
		t.Errorf("header = %q", tbl.Header)
	}
}

func TestMarkdownIngest_TextBeforeFirstHeadingDropped(t *testing.T) {
	ing := &MarkdownIngester{}
	src := "Orphan preamble.\n\n# Executive Summary\n\nBody.\n"
	doc, err := ing.Ingest(strings.NewReader(src), "r.md", mdHeadings())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(doc.Sections))
	}
	for _, p := range doc.Sections[0].Paragraphs {
		if strings.Contains(p, "Orphan") {
			t.Fatalf("preamble leaked into section: %v", doc.Sections[0].Paragraphs)
		}
	}
}

func TestMarkdownIngest_NilHeadingSet(t *testing.T) {
	ing := &MarkdownIngester{}
	src := "# Anything At All\n\nBody text.\n"
	doc, err := ing.Ingest(strings.NewReader(src), "r.md", nil)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Name != "Anything At All" {
		t.Fatalf("sections = %+v", doc.Sections)
	}
}

func TestForFile(t *testing.T) {
	cases := []struct {
		filename string
		wantErr  bool
	}{
		{"report.json", false},
		{"report.md", false},
		{"report.markdown", false},
		{"Report.DOCX", false},
		{"report.pdf", true},
		{"report", true},
	}
	for _, tc := range cases {
		_, err := ForFile(tc.filename)
		if (err != nil) != tc.wantErr {
			t.Errorf("ForFile(%q) err = %v, wantErr %v", tc.filename, err, tc.wantErr)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("a.json") || !IsSupportedExtension("a.MD") || !IsSupportedExtension("a.docx") {
		t.Error("supported extensions rejected")
	}
	if IsSupportedExtension("a.pdf") || IsSupportedExtension("a") {
		t.Error("unsupported extensions accepted")
	}
}
