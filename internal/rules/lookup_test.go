package rules

import (
	"strings"
	"testing"

	"github.com/metrosafety/proofd/internal/docmodel"
)

func TestRatingStatement(t *testing.T) {
	rule := RatingStatement{SectionPrefix: "life safety risk rating at this premises"}

	doc := &docmodel.Document{Sections: []*docmodel.Section{{
		Name: "Life Safety Risk Rating at this Premises",
		Paragraphs: []string{
			"Taking into account the controls in place,",
			"the life safety risk rating at this premises is: Moderate",
		},
	}}}

	res := rule.Evaluate(doc)
	if !res.Decided || res.Verdict != PassToken {
		t.Fatalf("decided=%v verdict=%q", res.Decided, res.Verdict)
	}
	data := res.Data.(map[string]string)
	if data["value"] != "Moderate" {
		t.Errorf("value = %q, want Moderate", data["value"])
	}
}

func TestRatingStatement_NoStatementFails(t *testing.T) {
	rule := RatingStatement{SectionPrefix: "life safety risk rating at this premises"}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{
		Name:       "Life Safety Risk Rating at this Premises",
		Paragraphs: []string{"Rating to be confirmed."},
	}}}

	if res := rule.Evaluate(doc); res.Verdict != FailToken {
		t.Fatalf("verdict = %q, want FAIL", res.Verdict)
	}
}

func TestRatingStatement_NoSectionFails(t *testing.T) {
	rule := RatingStatement{SectionPrefix: "life safety risk rating at this premises"}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{Name: "Introduction"}}}

	if res := rule.Evaluate(doc); res.Verdict != FailToken {
		t.Fatalf("verdict = %q, want FAIL", res.Verdict)
	}
}

func TestFreeValue_TableLookup(t *testing.T) {
	rule := FreeValue{
		NameSuffix:   "property description",
		NameContains: "property site/description",
		LabelPrefix:  "propertysite/description",
	}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{
		Name: "2.1 Property Description",
		Tables: []*docmodel.Table{
			{Rows: [][]string{
				{"Address", "1 High Street"},
				{"Property Site / Description", "  Three storey office block.  "},
			}},
		},
	}}}

	if got := rule.Extract(doc); got != "Three storey office block." {
		t.Fatalf("Extract = %q", got)
	}
}

func TestFreeValue_ParagraphFallback(t *testing.T) {
	rule := FreeValue{
		NameSuffix:   "property description",
		NameContains: "property site/description",
		LabelPrefix:  "propertysite/description",
	}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{
		Name:       "Property Description",
		Paragraphs: []string{"A converted", "Victorian warehouse."},
	}}}

	if got := rule.Extract(doc); got != "A converted Victorian warehouse." {
		t.Fatalf("Extract = %q", got)
	}
}

func TestFreeValue_AbsentSection(t *testing.T) {
	rule := FreeValue{NameSuffix: "property description", NameContains: "property site/description"}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{Name: "Introduction"}}}

	if got := rule.Extract(doc); got != "" {
		t.Fatalf("Extract = %q, want empty", got)
	}
	res := rule.Evaluate(doc)
	if res.Decided {
		t.Fatal("free value always goes to the judge")
	}
}

func TestRatingTable_CompleteTablePasses(t *testing.T) {
	rule := RatingTable{SectionName: "Overall Risk Rating"}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{
		Name: "Overall Risk Rating",
		Tables: []*docmodel.Table{{
			Header: "Overall Risk Rating",
			Rows: [][]string{
				{"Likelihood", "Severity", "Rating"},
				{"Possible", "Moderate", "Medium"},
			},
		}},
	}}}

	if res := rule.Evaluate(doc); res.Verdict != PassToken {
		t.Fatalf("verdict = %q", res.Verdict)
	}
}

func TestRatingTable_BlankCellFails(t *testing.T) {
	rule := RatingTable{SectionName: "Overall Risk Rating"}
	doc := &docmodel.Document{Sections: []*docmodel.Section{{
		Name: "Overall Risk Rating",
		Tables: []*docmodel.Table{{
			ID:     "t4",
			Page:   2,
			Header: "Overall Risk Rating",
			Rows: [][]string{
				{"Likelihood", "Severity", "Rating"},
				{"Possible", "", "Medium"},
			},
		}},
	}}}

	res := rule.Evaluate(doc)
	if res.Verdict == PassToken {
		t.Fatal("blank cell must fail")
	}
	if len(res.Findings) != 1 {
		t.Fatalf("findings = %+v", res.Findings)
	}
	if f := res.Findings[0]; f.Page != 2 || f.Table != "t4" || f.Row != 2 {
		t.Errorf("finding = %+v", f)
	}
}

func TestRatingTable_MissingSectionOrTable(t *testing.T) {
	rule := RatingTable{SectionName: "Overall Risk Rating"}

	doc := &docmodel.Document{Sections: []*docmodel.Section{{Name: "Introduction"}}}
	if res := rule.Evaluate(doc); !strings.Contains(res.Verdict, "not found") {
		t.Errorf("verdict = %q", res.Verdict)
	}

	doc = &docmodel.Document{Sections: []*docmodel.Section{{
		Name:   "Overall Risk Rating",
		Tables: []*docmodel.Table{{Header: "Some Other Table", Rows: [][]string{{"x"}}}},
	}}}
	if res := rule.Evaluate(doc); !strings.Contains(res.Verdict, "table present") {
		t.Errorf("verdict = %q", res.Verdict)
	}
}
