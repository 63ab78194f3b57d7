package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The floor canonicaliser maps free-text location strings onto a small
// closed vocabulary of floor labels. Patterns are tried strictly in order
// and the first match wins: fixed and compound phrases must be tested
// before the generic numeric patterns, or "Basement Mezzanine B2" would
// canonicalise as a plain basement. Do not reorder.
type floorPattern struct {
	re    *regexp.Regexp
	canon func(m []string) string
}

var floorCascade = []floorPattern{
	{
		re:    regexp.MustCompile(`(?i)^basement\s+mezz(?:anine)?\s*b?(\d+)$`),
		canon: func(m []string) string { return "Basement Mezzanine B" + m[1] },
	},
	{
		re:    regexp.MustCompile(`(?i)^basement\s+mezz(?:anine)?$`),
		canon: func(m []string) string { return "Basement Mezzanine" },
	},
	{
		re:    regexp.MustCompile(`(?i)^(?:grd|ground|g)\s*(?:floor\s+)?mezz(?:anine)?$`),
		canon: func(m []string) string { return "Grd Mezzanine" },
	},
	{
		re: regexp.MustCompile(`(?i)^(\d+)(?:st|nd|rd|th)?\s*(?:floor\s+)?mezz(?:anine)?$`),
		canon: func(m []string) string {
			n, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%d%s Mezzanine", n, ordinalSuffix(n))
		},
	},
	{
		re:    regexp.MustCompile(`(?i)^mezz(?:anine)?$`),
		canon: func(m []string) string { return "Mezzanine" },
	},
	{
		re:    regexp.MustCompile(`(?i)\bexternal\s+wall\b`),
		canon: func(m []string) string { return "External Wall" },
	},
	{
		re:    regexp.MustCompile(`(?i)\broof\b`),
		canon: func(m []string) string { return "Roof" },
	},
	{
		re:    regexp.MustCompile(`(?i)^(?:lg|lower\s+ground)(?:\s+floor)?$`),
		canon: func(m []string) string { return "Lower Ground Floor" },
	},
	{
		re:    regexp.MustCompile(`(?i)^b(?:asement)?\s*(\d+)$`),
		canon: func(m []string) string { return "Basement " + m[1] },
	},
	{
		re:    regexp.MustCompile(`(?i)^basement$`),
		canon: func(m []string) string { return "Basement" },
	},
	{
		re:    regexp.MustCompile(`(?i)^(?:g|grd|ground)(?:\s+floor)?$`),
		canon: func(m []string) string { return "Ground Floor" },
	},
	{
		re: regexp.MustCompile(`(?i)^(\d+)(?:st|nd|rd|th)?(?:\s+floor)?$`),
		canon: func(m []string) string {
			n, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%d%s Floor", n, ordinalSuffix(n))
		},
	},
}

// CanonicalFloor parses a free-text location string into its canonical
// floor label. The second return is false when no pattern matches; callers
// must treat that as "not found" rather than guess.
func CanonicalFloor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, p := range floorCascade {
		if m := p.re.FindStringSubmatch(s); m != nil {
			return p.canon(m), true
		}
	}
	return "", false
}

// ordinalSuffix returns the English ordinal suffix for n: 1st, 2nd, 3rd,
// 11th through 20th all "th", everything else by last digit.
func ordinalSuffix(n int) string {
	if r := n % 100; r >= 11 && r <= 20 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
