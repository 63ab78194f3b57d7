package proofing

import (
	"strings"
	"testing"
)

func TestProtectRestoreTags(t *testing.T) {
	in := "<p>The premises <u>were</u> inspected.</p><ul><li>Item one</li></ul>"
	protected := ProtectTags(in)
	if protected == in {
		t.Fatal("ProtectTags changed nothing")
	}
	for _, tag := range []string{"<p>", "</p>", "<ul>", "</ul>", "<li>", "</li>", "<u>", "</u>"} {
		if strings.Contains(protected, tag) {
			t.Errorf("tag %q survived protection: %q", tag, protected)
		}
	}
	if got := RestoreTags(protected); got != in {
		t.Fatalf("round trip = %q, want %q", got, in)
	}
}

func TestProtectTags_LeavesOtherTags(t *testing.T) {
	in := `<br><strong>bold</strong>`
	if got := ProtectTags(in); got != in {
		t.Fatalf("unlisted tags must pass through: %q", got)
	}
}

func TestHasFormattingTags(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"<p>text</p>", true},
		{"<P>upper case</P>", true},
		{"<ul><li>x</li></ul>", true},
		{"plain text", false},
		{"<strong>other tags</strong>", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := hasFormattingTags(tc.in); got != tc.want {
			t.Errorf("hasFormattingTags(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Hello <strong>world</strong></p>", "Hello world"},
		{"plain text", "plain text"},
		{"<ul><li>one</li><li>two</li></ul>", "one two"},
		{"<p>  spaced  </p>", "spaced"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
