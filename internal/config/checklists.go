package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Checklists carries the per-work-type section heading vocabulary and the
// water checklist's site parameters. The heading lists are versioned with
// the report templates: when a template revision renames a heading, the
// deployment ships a new YAML file rather than a code change.
type Checklists struct {
	Headings map[string][]string `yaml:"headings"`
	Water    WaterConfig         `yaml:"water"`
}

// WaterConfig parameterises the water hygiene checklist.
type WaterConfig struct {
	ListingSection   string   `yaml:"listing_section"`
	ExpectedItems    []string `yaml:"expected_items"`
	NarrativeSection string   `yaml:"narrative_section"`
	ExcludePrefixes  []string `yaml:"exclude_prefixes"`
}

// DefaultChecklists returns the vocabulary matching the current report
// templates.
func DefaultChecklists() Checklists {
	return Checklists{
		Headings: map[string][]string{
			"fra": {
				"Executive Summary",
				"Significant Findings and Action Plan",
				"Life Safety Risk Rating at this Premises",
				"General Statement of Compliance",
			},
			"hsa": {
				"Executive Summary",
				"Significant Findings and Action Plan",
				"Overall Risk Rating",
				"Property Description",
			},
			"water": {
				"Executive Summary",
				"Significant Findings and Action Plan",
				"Areas Monitored",
				"Description of the Water Systems",
			},
		},
		Water: WaterConfig{
			ListingSection:   "Areas Monitored",
			NarrativeSection: "Description of the Water Systems",
			ExpectedItems:    []string{"Sentinel Outlets", "Calorifiers", "Cold Water Storage Tanks"},
			ExcludePrefixes:  []string{"WC", "WHB"},
		},
	}
}

// LoadChecklists reads the YAML checklist file at path, falling back to the
// defaults for anything the file leaves out. An empty path returns the
// defaults unchanged.
func LoadChecklists(path string) (Checklists, error) {
	cl := DefaultChecklists()
	if path == "" {
		return cl, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cl, fmt.Errorf("read checklist config: %w", err)
	}

	var loaded Checklists
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cl, fmt.Errorf("parse checklist config: %w", err)
	}

	for workType, headings := range loaded.Headings {
		if len(headings) > 0 {
			cl.Headings[workType] = headings
		}
	}
	if loaded.Water.ListingSection != "" {
		cl.Water.ListingSection = loaded.Water.ListingSection
	}
	if len(loaded.Water.ExpectedItems) > 0 {
		cl.Water.ExpectedItems = loaded.Water.ExpectedItems
	}
	if loaded.Water.NarrativeSection != "" {
		cl.Water.NarrativeSection = loaded.Water.NarrativeSection
	}
	if len(loaded.Water.ExcludePrefixes) > 0 {
		cl.Water.ExcludePrefixes = loaded.Water.ExcludePrefixes
	}
	return cl, nil
}

// HeadingsFor returns the vocabulary for a work type, empty when unknown.
func (c Checklists) HeadingsFor(workType string) []string {
	return c.Headings[workType]
}
