// ABOUTME: Validation of the top-level mime_types list
// ABOUTME: Also builds the set used for plugin mime reference checks
package catalog

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/plugincheck/catalint/internal/document"
)

// validateMimeTypes checks the list is non-empty and that every entry looks
// like type/subtype. Nothing beyond the slash is checked.
func validateMimeTypes(c *collector, mimeTypes document.Value) {
	c.expectNonEmpty(RuleMimeTypesNonEmpty, Root().Field(fieldMimeTypes), mimeTypes, document.KindArray)

	for i, entry := range mimeTypes.Items() {
		scope := Root().Index(fieldMimeTypes, i)
		s, ok := entry.AsString()
		switch {
		case !ok:
			c.failAs(RuleMimeTypesFormat, StructuralViolation, scope, entry, "expected string, got "+entry.Kind().String())
		case !strings.Contains(s, "/"):
			c.fail(RuleMimeTypesFormat, scope, entry, `expected a "/" separating type and subtype`)
		default:
			c.pass(RuleMimeTypesFormat, scope)
		}
	}
}

// knownMimeTypes collects the string entries of mime_types. The set is
// read concurrently by plugin validators and never written after this.
func knownMimeTypes(mimeTypes document.Value) mapset.Set[string] {
	known := mapset.NewSet[string]()
	for _, entry := range mimeTypes.Items() {
		if s, ok := entry.AsString(); ok {
			known.Add(s)
		}
	}
	return known
}
