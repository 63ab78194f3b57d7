package rules

import (
	"reflect"
	"testing"

	"github.com/metrosafety/proofd/internal/docmodel"
)

func TestRegistry_OrderAndHeadings(t *testing.T) {
	r := NewRegistry("test")
	r.Register("Q2", "second", RuleFunc(func(*docmodel.Document) Result {
		return Result{Decided: true, Verdict: PassToken}
	}))
	r.Register("Q1", "first", RuleFunc(func(*docmodel.Document) Result {
		return Result{Decided: true, Verdict: FailToken}
	}))

	want := []QuestionID{"Q2", "Q1"}
	if got := r.Questions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Questions = %v, want %v", got, want)
	}
	if r.Heading("Q1") != "first" {
		t.Errorf("Heading(Q1) = %q", r.Heading("Q1"))
	}

	results := r.Evaluate(&docmodel.Document{})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Question != "Q2" || results[1].Question != "Q1" {
		t.Errorf("question order: %v, %v", results[0].Question, results[1].Question)
	}
}

func TestRegistry_ReregisterKeepsPosition(t *testing.T) {
	r := NewRegistry("test")
	pass := RuleFunc(func(*docmodel.Document) Result { return Result{Decided: true, Verdict: PassToken} })
	r.Register("Q1", "one", pass)
	r.Register("Q2", "two", pass)
	r.Register("Q1", "one again", pass)

	want := []QuestionID{"Q1", "Q2"}
	if got := r.Questions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Questions = %v, want %v", got, want)
	}
	if r.Heading("Q1") != "one again" {
		t.Errorf("Heading(Q1) = %q", r.Heading("Q1"))
	}
}

func TestDecidedResult_RefusesPassWithFindings(t *testing.T) {
	res := decidedResult(PassToken, nil, []Finding{{Page: 1, Label: "Observation"}})
	if res.Verdict == PassToken {
		t.Fatalf("verdict = %q, outstanding findings cannot pass", res.Verdict)
	}
}

func TestChecklistRegistries(t *testing.T) {
	cases := []struct {
		reg  *Registry
		want []QuestionID
	}{
		{FRAChecklist(), []QuestionID{"Q3", "Q4", "Q9", "Q11"}},
		{HSAChecklist(), []QuestionID{"Q3", "Q4", "Q9", "Q11"}},
		{WaterChecklist(WaterParams{}), []QuestionID{"Q5", "Q7", "Q13"}},
	}
	for _, tc := range cases {
		if got := tc.reg.Questions(); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s questions = %v, want %v", tc.reg.Name(), got, tc.want)
		}
		for _, q := range tc.want {
			if tc.reg.Rule(q) == nil {
				t.Errorf("%s: no rule for %s", tc.reg.Name(), q)
			}
			if tc.reg.Heading(q) == "" {
				t.Errorf("%s: no heading for %s", tc.reg.Name(), q)
			}
		}
	}
}
