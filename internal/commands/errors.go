// ABOUTME: Errors returned by catalint commands
// ABOUTME: A failed validation is an error so the process exits non-zero
package commands

import (
	"fmt"
	"strings"
)

// ValidationFailedError reports catalogs that have at least one violation
type ValidationFailedError struct {
	Catalogs   []string
	Violations int
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s) in %s",
		e.Violations, strings.Join(e.Catalogs, ", "))
}
