// ABOUTME: Validation results and the report aggregating one validation run
// ABOUTME: Provides violation filtering, counts by kind, and scope queries
package catalog

import "github.com/plugincheck/catalint/internal/document"

// Result is the outcome of evaluating one rule at one scope
type Result struct {
	Rule        RuleID
	Kind        ViolationKind // the kind reported when the rule fails
	Scope       Path
	Description string
	Passed      bool
	Value       document.Value // offending value; missing when the rule passed
	Detail      string         // what was expected, for failures
}

// Counts summarises a report
type Counts struct {
	Total  int `json:"total" yaml:"total"`
	Passed int `json:"passed" yaml:"passed"`
	Failed int `json:"failed" yaml:"failed"`
}

// Report is the ordered result list of one validation run
type Report struct {
	Results []Result
}

// Passed reports whether no rule failed
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Violations returns the failed results in order
func (r *Report) Violations() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Counts returns total, passed and failed result counts
func (r *Report) Counts() Counts {
	c := Counts{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Passed {
			c.Passed++
		} else {
			c.Failed++
		}
	}
	return c
}

// CountByKind counts violations per kind. Kinds without violations are
// omitted.
func (r *Report) CountByKind() map[ViolationKind]int {
	out := make(map[ViolationKind]int)
	for _, res := range r.Results {
		if !res.Passed {
			out[res.Kind]++
		}
	}
	return out
}

// ViolationsOfKind returns the failed results of one kind
func (r *Report) ViolationsOfKind(kind ViolationKind) []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed && res.Kind == kind {
			out = append(out, res)
		}
	}
	return out
}

// ForScope returns the results at or below prefix
func (r *Report) ForScope(prefix Path) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Scope.HasPrefix(prefix) {
			out = append(out, res)
		}
	}
	return out
}

// FailuresOnly returns a report holding only the violations
func (r *Report) FailuresOnly() *Report {
	return &Report{Results: r.Violations()}
}

// EvaluatedRules returns the distinct rules that produced a result, in the
// order each was first evaluated
func (r *Report) EvaluatedRules() []RuleID {
	seen := make(map[RuleID]bool)
	var out []RuleID
	for _, res := range r.Results {
		if !seen[res.Rule] {
			seen[res.Rule] = true
			out = append(out, res.Rule)
		}
	}
	return out
}
