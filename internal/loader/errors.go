// ABOUTME: Typed errors returned while locating and parsing catalog files
// ABOUTME: Messages carry the path and, where known, the failing line
package loader

import (
	"fmt"
)

// NotFoundError indicates the catalog file does not exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(`catalog file not found: %s

Pass the catalog path as an argument, or set "catalog" in config.toml
(or CATALINT_CATALOG) to change the default.`, e.Path)
}

// ParseError indicates the catalog file could not be decoded
type ParseError struct {
	Path   string
	Format Format
	Line   int // 1-based, 0 when the decoder reported no position
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s as %s: line %d: %v", e.Path, e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s as %s: %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
