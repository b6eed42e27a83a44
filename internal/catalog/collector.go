// ABOUTME: Append-only result collector threaded through the validators
// ABOUTME: Kind assertions record a pass or a violation instead of failing fast
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/plugincheck/catalint/internal/document"
)

// collector is owned by exactly one goroutine for the duration of a run
type collector struct {
	results []Result
}

func (c *collector) record(id RuleID, kind ViolationKind, scope Path, passed bool, got document.Value, detail string) {
	rule, _ := LookupRule(id)
	if kind == "" {
		kind = rule.Kind
	}
	res := Result{
		Rule:        id,
		Kind:        kind,
		Scope:       scope,
		Description: rule.Description,
		Passed:      passed,
	}
	if !passed {
		res.Value = got
		res.Detail = detail
	}
	c.results = append(c.results, res)
}

func (c *collector) pass(id RuleID, scope Path) {
	c.record(id, "", scope, true, document.Missing(), "")
}

// fail records a violation of the rule's own kind
func (c *collector) fail(id RuleID, scope Path, got document.Value, detail string) {
	c.record(id, "", scope, false, got, detail)
}

// failAs records a violation whose kind differs from the rule default
func (c *collector) failAs(id RuleID, kind ViolationKind, scope Path, got document.Value, detail string) {
	c.record(id, kind, scope, false, got, detail)
}

// expectKind asserts that v has kind want
func (c *collector) expectKind(id RuleID, scope Path, v document.Value, want document.Kind) bool {
	if v.Kind() != want {
		c.fail(id, scope, v, fmt.Sprintf("expected %s, got %s", want, v.Kind()))
		return false
	}
	c.pass(id, scope)
	return true
}

// expectNonEmpty asserts that v is a container of kind want holding at
// least one entry. A missing or mistyped container is an empty one.
func (c *collector) expectNonEmpty(id RuleID, scope Path, v document.Value, want document.Kind) bool {
	switch {
	case v.Kind() != want:
		c.fail(id, scope, v, fmt.Sprintf("expected a non-empty %s, got %s", want, v.Kind()))
		return false
	case v.Len() == 0:
		c.fail(id, scope, v, fmt.Sprintf("expected a non-empty %s", want))
		return false
	}
	c.pass(id, scope)
	return true
}

// expectOneOf asserts that v is a string equal to one of allowed
func (c *collector) expectOneOf(id RuleID, scope Path, v document.Value, allowed []string) bool {
	s, ok := v.AsString()
	if ok && slices.Contains(allowed, s) {
		c.pass(id, scope)
		return true
	}
	c.fail(id, scope, v, "expected "+describeAllowed(allowed))
	return false
}

func describeAllowed(allowed []string) string {
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "one of " + strings.Join(quoted, ", ")
}
