package rules

import (
	"strconv"
	"strings"

	"github.com/metrosafety/proofd/internal/docmodel"
)

// AreaCount is one remedial-action count read from the areas table.
type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// CountComparison carries both sides of the totals consistency check.
type CountComparison struct {
	RemedialByArea []AreaCount `json:"remedial_by_section"`
	RemedialTotal  int         `json:"remedial_total"`
	SigItemCount   int         `json:"sig_item_count"`
}

// CountReconciliation compares the remedial-action totals of the areas
// summary against the number of Significant Findings items. Integer parsing
// is best-effort: a cell that does not parse as an integer is skipped, not
// counted as zero, so garbled OCR output degrades the total gracefully.
type CountReconciliation struct {
	AreasPrefix    string // e.g. "1.1 Areas"
	FindingsPrefix string // e.g. "Significant Findings"
}

func (r CountReconciliation) Evaluate(doc *docmodel.Document) Result {
	var byArea []AreaCount
	total := 0

	for _, sec := range doc.SectionsWithPrefix(r.AreasPrefix) {
		for _, tbl := range sec.Tables {
			if len(tbl.Rows) < 2 {
				continue
			}
			// First row is the column header.
			for _, row := range tbl.Rows[1:] {
				if len(row) < 2 {
					continue
				}
				n, err := strconv.Atoi(strings.TrimSpace(row[1]))
				if err != nil {
					continue
				}
				byArea = append(byArea, AreaCount{Area: row[0], Count: n})
				total += n
			}
		}
	}

	sigItems := 0
	if sec := doc.FindSectionPrefix(r.FindingsPrefix); sec != nil {
		sigItems = len(sec.Tables)
	}

	data := CountComparison{RemedialByArea: byArea, RemedialTotal: total, SigItemCount: sigItems}

	// Equal totals are a pure count comparison and decide PASS locally;
	// a mismatch goes to the judge, which can describe the discrepancy
	// using the per-area breakdown.
	if total == sigItems {
		return decidedResult(PassToken, data, nil)
	}
	return judgeResult(BuildCountPrompt(data), data)
}
