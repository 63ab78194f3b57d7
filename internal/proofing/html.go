// Package proofing corrects spelling and grammar in rich-text report content
// held as HTML, using the judge as the proofreader.
package proofing

import (
	"strings"

	"golang.org/x/net/html"
)

// tagMap pairs the formatting tags we must preserve verbatim with opaque
// placeholders. Protected text can round-trip through the judge without the
// tags being "corrected".
var tagMap = [][2]string{
	{"<p>", "[[P]]"},
	{"</p>", "[[/P]]"},
	{"<ul>", "[[UL]]"},
	{"</ul>", "[[/UL]]"},
	{"<li>", "[[LI]]"},
	{"</li>", "[[/LI]]"},
	{"<u>", "[[U]]"},
	{"</u>", "[[/U]]"},
}

// ProtectTags replaces formatting tags with placeholders.
func ProtectTags(text string) string {
	for _, pair := range tagMap {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	return text
}

// RestoreTags reverses ProtectTags.
func RestoreTags(text string) string {
	for _, pair := range tagMap {
		text = strings.ReplaceAll(text, pair[1], pair[0])
	}
	return text
}

// hasFormattingTags reports whether the text carries any tag we preserve.
func hasFormattingTags(text string) bool {
	lower := strings.ToLower(text)
	for _, pair := range tagMap {
		if strings.Contains(lower, pair[0]) {
			return true
		}
	}
	return false
}

// StripHTML returns only the text content of an HTML fragment, with element
// boundaries collapsed to single spaces. Malformed input comes back as-is.
func StripHTML(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " ")
}
