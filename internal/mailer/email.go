// Package mailer builds and sends the proofing outcome email for a work
// order.
package mailer

import (
	"fmt"
	"strings"
)

// Outcome is everything the email needs about a finished proofing run.
type Outcome struct {
	DigitalOutcome  string
	WorkOrderNumber string
	WorkOrderID     string
	BuildingName    string
	WorkTypeRef     string
	ResourceName    string
	// Question headings in presentation order, paired with answers.
	Questions []QuestionAnswer
	// Shareable link to the spelling/grammar change log, if one exists.
	ChangesURL string
}

// QuestionAnswer pairs an email heading with the verdict text under it.
type QuestionAnswer struct {
	Heading string
	Answer  string
}

// Subject renders the pipe-delimited subject line. The digital outcome leads
// so a reviewer can triage from the inbox list alone.
func (o Outcome) Subject() string {
	return fmt.Sprintf("%s || %s/%s || %s || %s",
		o.DigitalOutcome, o.WorkOrderNumber, o.WorkOrderID, o.BuildingName, o.WorkTypeRef)
}

// HTMLBody renders the email body.
func (o Outcome) HTMLBody() string {
	firstName := "there"
	if fields := strings.Fields(o.ResourceName); len(fields) > 0 {
		firstName = fields[0]
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("<p>Hello %s,</p>", firstName))
	lines = append(lines, fmt.Sprintf(
		"<p>Below are the proofing outputs for '<strong>%s</strong>' (Work Order #%s):</p>",
		o.BuildingName, o.WorkOrderNumber))

	for _, qa := range o.Questions {
		answer := qa.Answer
		if answer == "" {
			answer = "(no result)"
		}
		indented := strings.Join(strings.Split(answer, "\n"), "<br>")
		lines = append(lines, fmt.Sprintf("<p><strong>%s:</strong><br>%s</p>", qa.Heading, indented))
	}

	lines = append(lines, "<p>Regards,<br>Digital Validation</p>")
	if o.ChangesURL != "" {
		lines = append(lines, fmt.Sprintf(
			"<p>Link to the spelling/grammar changes made to the Building Description &amp; Actions can be found: <a href=%q>here</a></p>",
			o.ChangesURL))
	}
	return strings.Join(lines, "\n")
}
