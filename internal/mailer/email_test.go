package mailer

import (
	"strings"
	"testing"
)

func TestOutcome_Subject(t *testing.T) {
	o := Outcome{
		DigitalOutcome:  "PASS",
		WorkOrderNumber: "WO-00123",
		WorkOrderID:     "a0B123",
		BuildingName:    "Riverside House",
		WorkTypeRef:     "FRA",
	}
	want := "PASS || WO-00123/a0B123 || Riverside House || FRA"
	if got := o.Subject(); got != want {
		t.Fatalf("Subject = %q, want %q", got, want)
	}
}

func TestOutcome_HTMLBody(t *testing.T) {
	o := Outcome{
		WorkOrderNumber: "WO-00123",
		BuildingName:    "Riverside House",
		ResourceName:    "Jane Smith",
		Questions: []QuestionAnswer{
			{Heading: "Totals consistency check", Answer: "PASS"},
			{Heading: "Building Description completeness assessment", Answer: ""},
			{Heading: "Findings review", Answer: "FAIL: line one\nline two"},
		},
	}

	body := o.HTMLBody()
	for _, want := range []string{
		"<p>Hello Jane,</p>",
		"'<strong>Riverside House</strong>' (Work Order #WO-00123)",
		"<p><strong>Totals consistency check:</strong><br>PASS</p>",
		"(no result)",
		"FAIL: line one<br>line two",
		"<p>Regards,<br>Digital Validation</p>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "spelling/grammar changes") {
		t.Error("no changes link expected without a URL")
	}
}

func TestOutcome_HTMLBody_NoResourceName(t *testing.T) {
	body := Outcome{ResourceName: "  "}.HTMLBody()
	if !strings.Contains(body, "<p>Hello there,</p>") {
		t.Fatalf("fallback greeting missing:\n%s", body)
	}
}

func TestOutcome_HTMLBody_ChangesLink(t *testing.T) {
	body := Outcome{ChangesURL: "https://blobs.example.com/logs/WO-1_logs.csv?sig=abc"}.HTMLBody()
	if !strings.Contains(body, `<a href="https://blobs.example.com/logs/WO-1_logs.csv?sig=abc">here</a>`) {
		t.Fatalf("changes link missing:\n%s", body)
	}
}
