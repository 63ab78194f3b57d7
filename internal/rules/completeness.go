package rules

import (
	"regexp"
	"strings"

	"github.com/metrosafety/proofd/internal/docmodel"
)

// targetDateRe is the DD/MM/YYYY form required in target-date cells.
var targetDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// SFAPCompleteness checks every row of every table under the Significant
// Findings and Action Plan section: each required label's adjacent value
// must be non-blank after trimming, and Target Date values must be dates in
// DD/MM/YYYY form. One finding accumulates per (label, location) pair.
type SFAPCompleteness struct {
	SectionName string // exact heading, e.g. "Significant Findings and Action Plan"
}

func (r SFAPCompleteness) Evaluate(doc *docmodel.Document) Result {
	var findings []Finding

	for _, sec := range doc.Sections {
		if sec.Name != r.SectionName {
			continue
		}
		for _, tbl := range sec.Tables {
			if len(tbl.Rows) < 2 {
				continue
			}
			// First row is the title row ["", "<something>"].
			for i, row := range tbl.Rows[1:] {
				label := ""
				if len(row) > 0 {
					label = row[0]
				}
				value := ""
				if len(row) > 1 {
					value = row[1]
				}
				value = strings.TrimSpace(value)

				switch label {
				case "Observation", "Action Required":
					if value == "" {
						findings = append(findings, Finding{
							Page: tbl.Page, Table: tbl.ID, Row: i + 2, Label: label,
						})
					}
				case "Target Date":
					if value == "" || !targetDateRe.MatchString(value) {
						findings = append(findings, Finding{
							Page: tbl.Page, Table: tbl.ID, Row: i + 2, Label: label,
						})
					}
				}
			}
		}
	}

	if len(findings) == 0 {
		return decidedResult(PassToken, nil, nil)
	}
	return decidedResult(FailWithFindings(findings), nil, findings)
}

var (
	bdRootRe  = regexp.MustCompile(`(?i)^(\d+)\.0\s+Building Description`)
	bdMajorRe = regexp.MustCompile(`^(\d+)\.\d+`)
)

// BuildingDescription verifies that every populated sub-section of the
// Building Description chapter actually carries content — no section with
// an empty table passes. A document without a Building Description chapter
// passes trivially.
type BuildingDescription struct{}

func (BuildingDescription) Evaluate(doc *docmodel.Document) Result {
	majors := make(map[string]bool)
	for _, sec := range doc.Sections {
		if m := bdRootRe.FindStringSubmatch(sec.Name); m != nil {
			majors[m[1]] = true
		}
	}
	if len(majors) == 0 {
		return decidedResult(PassToken, nil, nil)
	}

	var bdSections []*docmodel.Section
	for _, sec := range doc.Sections {
		if m := bdMajorRe.FindStringSubmatch(sec.Name); m != nil && majors[m[1]] {
			bdSections = append(bdSections, sec)
		}
	}

	var dataSections []*docmodel.Section
	for _, sec := range bdSections {
		if sec.HasContent() {
			dataSections = append(dataSections, sec)
		}
	}
	if len(dataSections) == 0 {
		return decidedResult(PassToken, nil, nil)
	}

	var findings []Finding
	var emptyNames []string
	for _, sec := range dataSections {
		for _, tbl := range sec.Tables {
			if len(tbl.Rows) == 0 {
				findings = append(findings, Finding{
					Page: tbl.Page, Table: tbl.ID, Label: "table content",
				})
				emptyNames = append(emptyNames, sec.Name)
			}
		}
	}

	if len(findings) == 0 {
		return decidedResult(PassToken, nil, nil)
	}
	return decidedResult(
		FailToken+": missing table content in "+strings.Join(emptyNames, ", "),
		emptyNames, findings)
}
