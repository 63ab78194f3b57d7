package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/metrosafety/proofd/internal/docmodel"
)

// assetRefRe matches asset reference codes such as "MCW-01" or "CWST-2".
var assetRefRe = regexp.MustCompile(`^[A-Za-z]+-\d+$`)

// CrossReference collects every asset reference observed anywhere in the
// document's tables, drops the excluded outlet-level prefixes, and extracts
// the named narrative section. Both halves go to the judge — deciding which
// described assets genuinely need a reference requires domain knowledge.
type CrossReference struct {
	NarrativeSection string   // heading prefix of the system description
	ExcludePrefixes  []string // upper-case reference prefixes to drop, e.g. "SHOWER"
}

// CrossReferenceData is the deterministic half of the cross-reference check.
type CrossReferenceData struct {
	Identifiers []string `json:"identifiers"`
	Narrative   string   `json:"narrative"`
}

// Observed returns the de-duplicated, sorted asset references found in the
// document's tables after applying the exclusion list.
func (r CrossReference) Observed(doc *docmodel.Document) []string {
	seen := make(map[string]bool)
	for _, sec := range doc.Sections {
		for _, tbl := range sec.Tables {
			for _, row := range tbl.Rows {
				for _, cell := range row {
					ref := strings.TrimSpace(cell)
					if !assetRefRe.MatchString(ref) {
						continue
					}
					ref = strings.ToUpper(ref)
					if r.excluded(ref) {
						continue
					}
					seen[ref] = true
				}
			}
		}
	}
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

func (r CrossReference) excluded(ref string) bool {
	for _, prefix := range r.ExcludePrefixes {
		if strings.HasPrefix(ref, strings.ToUpper(prefix)+"-") {
			return true
		}
	}
	return false
}

func (r CrossReference) Evaluate(doc *docmodel.Document) Result {
	data := CrossReferenceData{Identifiers: r.Observed(doc)}
	if sec := doc.FindSectionPrefix(r.NarrativeSection); sec != nil {
		data.Narrative = sec.ParagraphText()
	}
	return judgeResult(BuildCrossReferencePrompt(data), data)
}

// ListingPresence reads the first table of a named section, skipping the
// header row, and tests whether every expected item appears in the first
// column.
type ListingPresence struct {
	SectionPrefix string
	Expected      []string
}

// ListingData reports which expected items were found and which are missing.
type ListingData struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

func (r ListingPresence) Evaluate(doc *docmodel.Document) Result {
	present := make(map[string]bool)
	if sec := doc.FindSectionPrefix(r.SectionPrefix); sec != nil && len(sec.Tables) > 0 {
		tbl := sec.Tables[0]
		if len(tbl.Rows) > 1 {
			for _, row := range tbl.Rows[1:] {
				if len(row) == 0 {
					continue
				}
				present[strings.ToLower(strings.TrimSpace(row[0]))] = true
			}
		}
	}

	data := ListingData{Found: []string{}, Missing: []string{}}
	for _, item := range r.Expected {
		if present[strings.ToLower(strings.TrimSpace(item))] {
			data.Found = append(data.Found, item)
		} else {
			data.Missing = append(data.Missing, item)
		}
	}

	if len(data.Missing) == 0 {
		return decidedResult(PassToken, data, nil)
	}
	return decidedResult(
		FailToken+": missing "+strings.Join(data.Missing, "; "), data, nil)
}

// FindingsReview renders the Significant Findings and Action Plan content
// for the judge's spelling, grammar and accuracy review.
type FindingsReview struct {
	SectionName string // matched case-insensitively on the trimmed heading
}

func (r FindingsReview) Evaluate(doc *docmodel.Document) Result {
	var sb strings.Builder
	if sec := doc.FindSectionFold(r.SectionName); sec != nil {
		for _, para := range sec.Paragraphs {
			if t := strings.TrimSpace(para); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
		}
		for _, tbl := range sec.Tables {
			for _, row := range tbl.Rows {
				sb.WriteString(strings.Join(row, " | "))
				sb.WriteString("\n")
			}
		}
	}
	text := strings.TrimSpace(sb.String())
	return judgeResult(BuildReviewPrompt(text), map[string]string{"findings": text})
}
