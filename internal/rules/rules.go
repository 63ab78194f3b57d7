// Package rules answers checklist questions about a parsed document.
// Each rule is a pure function over the document model: it either decides a
// PASS/FAIL verdict locally, or produces a prompt for the semantic judge
// when the answer needs free-text reasoning. Rules degrade gracefully —
// missing sections and malformed rows resolve to empty results, never
// errors, so one bad section cannot abort the rest of the batch.
package rules

import "github.com/metrosafety/proofd/internal/docmodel"

// QuestionID identifies one checklist question, e.g. "Q3".
type QuestionID string

// Finding is a single detected completeness problem with its location.
type Finding struct {
	Page  int    `json:"page"`
	Table string `json:"table,omitempty"`
	Row   int    `json:"row,omitempty"`
	Label string `json:"label"`
}

// Result is the structured answer a rule produces for one question.
// Exactly one of Verdict (when Decided) or Prompt (when not) is meaningful.
type Result struct {
	Question QuestionID `json:"question"`
	Decided  bool       `json:"decided"`
	Verdict  string     `json:"verdict,omitempty"`
	Prompt   string     `json:"prompt,omitempty"`
	Data     any        `json:"data,omitempty"`
	Findings []Finding  `json:"findings,omitempty"`
}

// Rule answers one checklist question from a parsed document.
type Rule interface {
	Evaluate(doc *docmodel.Document) Result
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(doc *docmodel.Document) Result

func (f RuleFunc) Evaluate(doc *docmodel.Document) Result { return f(doc) }

// Registry holds the rules of one checklist in a fixed question order.
type Registry struct {
	name     string
	order    []QuestionID
	headings map[QuestionID]string
	rules    map[QuestionID]Rule
}

// NewRegistry creates an empty registry for the named checklist.
func NewRegistry(name string) *Registry {
	return &Registry{
		name:     name,
		headings: make(map[QuestionID]string),
		rules:    make(map[QuestionID]Rule),
	}
}

// Register adds a rule under a question identifier. The heading is the
// human-readable question title used in the outcome email. Re-registering
// an identifier replaces the rule but keeps its original position.
func (r *Registry) Register(id QuestionID, heading string, rule Rule) {
	if _, exists := r.rules[id]; !exists {
		r.order = append(r.order, id)
	}
	r.headings[id] = heading
	r.rules[id] = rule
}

// Name returns the checklist name ("fra", "hsa", "water").
func (r *Registry) Name() string { return r.name }

// Questions returns the question identifiers in registration order.
func (r *Registry) Questions() []QuestionID {
	out := make([]QuestionID, len(r.order))
	copy(out, r.order)
	return out
}

// Heading returns the email heading for a question.
func (r *Registry) Heading(id QuestionID) string { return r.headings[id] }

// Rule returns the rule registered for a question, or nil.
func (r *Registry) Rule(id QuestionID) Rule { return r.rules[id] }

// Evaluate runs every registered rule over the document, in question order.
// Rules are independent; each result stands on its own.
func (r *Registry) Evaluate(doc *docmodel.Document) []Result {
	results := make([]Result, 0, len(r.order))
	for _, id := range r.order {
		res := r.rules[id].Evaluate(doc)
		res.Question = id
		results = append(results, res)
	}
	return results
}

// decidedResult builds a locally-decided result, refusing to report PASS
// while findings remain.
func decidedResult(verdict string, data any, findings []Finding) Result {
	if len(findings) > 0 && verdict == PassToken {
		verdict = FailWithFindings(findings)
	}
	return Result{Decided: true, Verdict: verdict, Data: data, Findings: findings}
}

// judgeResult builds a result whose final verdict comes from the semantic
// judge.
func judgeResult(prompt string, data any) Result {
	return Result{Decided: false, Prompt: prompt, Data: data}
}
