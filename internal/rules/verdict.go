package rules

import (
	"fmt"
	"strings"
)

// Verdict trigger tokens. Callers match on the first line of each answer,
// so these exact strings must open every deterministic verdict.
const (
	PassToken = "PASS"
	FailToken = "FAIL"
)

// FailWithFindings renders a deterministic FAIL verdict listing each
// finding, one per (label, location) pair.
func FailWithFindings(findings []Finding) string {
	if len(findings) == 0 {
		return FailToken
	}
	details := make([]string, 0, len(findings))
	for _, f := range findings {
		details = append(details, fmt.Sprintf("page %d missing %s", f.Page, f.Label))
	}
	return FailToken + ": " + strings.Join(details, "; ")
}

// BuildCountPrompt asks the judge to explain a totals mismatch between the
// remedial-action counts of Section 1.1 and the Significant Findings items.
func BuildCountPrompt(c CountComparison) string {
	parts := make([]string, 0, len(c.RemedialByArea))
	for _, a := range c.RemedialByArea {
		parts = append(parts, fmt.Sprintf("%s: %d", a.Area, a.Count))
	}
	breakdown := strings.Join(parts, ", ")

	return fmt.Sprintf(
		"Question 3: Compare the number of remedial actions raised in Section 1.1 with the\n"+
			"number of items in \"Significant Findings and Action Plan.\"\n\n"+
			"- Section 1.1 counts: %s  (Total = %d)\n"+
			"- Significant Findings items found: %d\n\n"+
			"If the totals match, reply \"PASS\". Otherwise list each discrepancy.",
		breakdown, c.RemedialTotal, c.SigItemCount)
}

// BuildDescriptionPrompt asks the judge to confirm a property or building
// description actually carries content.
func BuildDescriptionPrompt(content string) string {
	return fmt.Sprintf(
		"Question 4: Read the Building Description, ensure that there is content within\n\n"+
			"%s\n\n"+
			"If it's good and there is content, reply 'PASS'. Otherwise reply 'FAIL'",
		content)
}

// BuildReviewPrompt asks the judge to proof-read the Significant Findings
// and Action Plan content for spelling, grammar and technical accuracy.
func BuildReviewPrompt(findings string) string {
	return fmt.Sprintf(
		"Water Hygiene/Legionella Risk Assessment QCC Query:\n\n"+
			"Question 13: \"Significant Findings and Action Plan\" - read through the Observations & Actions, "+
			"checking for spelling mistakes, grammatical errors, technical inaccuracies or poor location descriptions. "+
			"Confirm that the Priority labels make sense, and note any missing supplementary photographs.\n\n"+
			"--- Significant Findings and Action Plan ---\n%s\n\n"+
			"If everything looks good, reply \"PASS\". Otherwise, list each discrepancy.",
		findings)
}

// BuildCrossReferencePrompt hands the observed asset identifiers and the
// system narrative to the judge. Which identifier prefixes are exempt is
// domain knowledge best expressed as an instruction, not as code.
func BuildCrossReferencePrompt(c CrossReferenceData) string {
	ids := strings.Join(c.Identifiers, ", ")
	if ids == "" {
		ids = "None found"
	}
	narrative := c.Narrative
	if narrative == "" {
		narrative = "None found"
	}
	return fmt.Sprintf(
		"Question 7: Cross-reference the core plant assets named in the written description of the "+
			"water system against the asset references observed in the report's tables.\n\n"+
			"--- Asset references observed in tables ---\n%s\n\n"+
			"--- Description of the water system ---\n%s\n\n"+
			"Outlet-level references (showers, taps, TMVs) are already excluded from the list above. "+
			"If every core plant asset in the description appears in the observed references, reply \"PASS\". "+
			"Otherwise list each asset that is described but never referenced.",
		ids, narrative)
}

// DigitalOutcome aggregates per-question answers into the overall outcome.
// An answer counts as a pass only when its first line, trimmed and
// upper-cased, is exactly the PASS token.
func DigitalOutcome(answers []string) string {
	for _, a := range answers {
		first := strings.ToUpper(strings.TrimSpace(a))
		if i := strings.IndexByte(first, '\n'); i >= 0 {
			first = strings.TrimSpace(first[:i])
		}
		if first != PassToken {
			return FailToken
		}
	}
	return PassToken
}
