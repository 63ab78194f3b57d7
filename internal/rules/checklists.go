package rules

// WaterParams configures the water hygiene checklist's site-specific rules.
type WaterParams struct {
	ListingSection   string
	ExpectedItems    []string
	NarrativeSection string
	ExcludePrefixes  []string
}

// FRAChecklist builds the fire risk assessment proofing registry.
func FRAChecklist() *Registry {
	r := NewRegistry("fra")
	r.Register("Q3",
		"Totals consistency check (Section 1.1 vs Significant Findings and Action Plan)",
		CountReconciliation{AreasPrefix: "1.1 Areas", FindingsPrefix: "Significant Findings"})
	r.Register("Q4",
		"Building Description completeness assessment",
		BuildingDescription{})
	r.Register("Q9",
		"Life Safety Risk Rating at this Premises review",
		RatingStatement{SectionPrefix: "life safety risk rating at this premises"})
	r.Register("Q11",
		"Verify Content listed in Significant Findings and Action Plan is complete",
		SFAPCompleteness{SectionName: "Significant Findings and Action Plan"})
	return r
}

// HSAChecklist builds the health and safety assessment proofing registry.
func HSAChecklist() *Registry {
	r := NewRegistry("hsa")
	r.Register("Q3",
		"Totals consistency check (Section 1.1 vs Significant Findings and Action Plan)",
		CountReconciliation{AreasPrefix: "1.1 Areas", FindingsPrefix: "Significant Findings"})
	r.Register("Q4",
		"Building Description completeness assessment",
		FreeValue{
			NameSuffix:   "property description",
			NameContains: "property site/description",
			LabelPrefix:  "propertysite/description",
		})
	r.Register("Q9",
		"Risk Rating & Management Control review",
		RatingTable{SectionName: "Overall Risk Rating"})
	r.Register("Q11",
		"Verify Content listed in Significant Findings and Action Plan is complete",
		SFAPCompleteness{SectionName: "Significant Findings and Action Plan"})
	return r
}

// WaterChecklist builds the water hygiene / legionella proofing registry.
func WaterChecklist(p WaterParams) *Registry {
	r := NewRegistry("water")
	r.Register("Q5",
		"Monitored areas listing check",
		ListingPresence{SectionPrefix: p.ListingSection, Expected: p.ExpectedItems})
	r.Register("Q7",
		"Core plant cross-reference against the water system description",
		CrossReference{NarrativeSection: p.NarrativeSection, ExcludePrefixes: p.ExcludePrefixes})
	r.Register("Q13",
		"Significant Findings and Action Plan review",
		FindingsReview{SectionName: "Significant Findings and Action Plan"})
	return r
}
