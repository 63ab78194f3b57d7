package rules

import (
	"regexp"
	"strings"

	"github.com/metrosafety/proofd/internal/docmodel"
)

var ratingStatementRe = regexp.MustCompile(`(?i)\bis[:\s]+(.+)`)

// RatingStatement finds the stated risk rating inside the paragraphs of a
// named section ("... is: Moderate"). Absence of the section or of the
// statement is a FAIL, not an error.
type RatingStatement struct {
	SectionPrefix string // lower-case heading prefix
}

func (r RatingStatement) Evaluate(doc *docmodel.Document) Result {
	rating := ""
	for _, sec := range doc.Sections {
		if !strings.HasPrefix(strings.ToLower(sec.Name), r.SectionPrefix) {
			continue
		}
		for _, para := range sec.Paragraphs {
			if m := ratingStatementRe.FindStringSubmatch(para); m != nil {
				rating = strings.TrimSpace(m[1])
				break
			}
		}
		break
	}

	if rating != "" {
		return decidedResult(PassToken, map[string]string{"value": rating}, nil)
	}
	return decidedResult(FailToken, map[string]string{"value": ""}, nil)
}

// FreeValue locates a row label inside the tables of a matching section and
// returns the adjacent cell's trimmed text; with no table match it falls
// back to the section's joined paragraph text. An absent section resolves
// to the empty string.
type FreeValue struct {
	NameSuffix   string // lower-case heading suffix, e.g. "property description"
	NameContains string // lower-case heading substring, e.g. "property site/description"
	LabelPrefix  string // lower-case, space-stripped row label prefix
}

// Extract returns the raw value without judging it.
func (r FreeValue) Extract(doc *docmodel.Document) string {
	for _, sec := range doc.Sections {
		name := strings.ToLower(strings.TrimSpace(sec.Name))
		if !strings.HasSuffix(name, r.NameSuffix) && !strings.Contains(name, r.NameContains) {
			continue
		}
		for _, tbl := range sec.Tables {
			for _, row := range tbl.Rows {
				if len(row) < 2 {
					continue
				}
				label := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(row[0])), " ", "")
				if strings.HasPrefix(label, r.LabelPrefix) {
					return strings.TrimSpace(row[1])
				}
			}
		}
		if len(sec.Paragraphs) > 0 {
			return sec.ParagraphText()
		}
	}
	return ""
}

func (r FreeValue) Evaluate(doc *docmodel.Document) Result {
	value := r.Extract(doc)
	return judgeResult(BuildDescriptionPrompt(value), map[string]string{"value": value})
}

// RatingTable requires the named section to contain a table with the given
// header and no blank cells anywhere in it.
type RatingTable struct {
	SectionName string // exact heading and table header, e.g. "Overall Risk Rating"
}

type blankCell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (r RatingTable) Evaluate(doc *docmodel.Document) Result {
	sec := doc.FindSection(r.SectionName)
	if sec == nil {
		return decidedResult(FailToken+": section '"+r.SectionName+"' not found", nil, nil)
	}

	var table *docmodel.Table
	for _, tbl := range sec.Tables {
		if tbl.Header == r.SectionName {
			table = tbl
			break
		}
	}
	if table == nil {
		return decidedResult(FailToken+": no '"+r.SectionName+"' table present", nil, nil)
	}

	var blanks []blankCell
	var findings []Finding
	for i, row := range table.Rows {
		for j, cell := range row {
			if cell == "" {
				blanks = append(blanks, blankCell{Row: i + 1, Col: j + 1})
				findings = append(findings, Finding{
					Page: table.Page, Table: table.ID, Row: i + 1, Label: "blank cell",
				})
			}
		}
	}

	if len(blanks) > 0 {
		return decidedResult(FailToken+": blank cells in "+r.SectionName+" table",
			map[string]any{"blank_cells": blanks}, findings)
	}
	return decidedResult(PassToken,
		map[string]any{"header": table.Header, "rows": table.Rows}, nil)
}
