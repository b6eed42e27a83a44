// ABOUTME: Scope paths locating each validation result inside the catalog document
// ABOUTME: Renders paths like plugin:"Acrobat" > os:"win" > latest[2] > platform
package catalog

import (
	"fmt"
	"strings"
)

// Segment is one step of a Path
type Segment struct {
	Label   string // scope label for keyed entries ("plugin", "os"); empty otherwise
	Name    string // field name, or the key for labelled segments
	Index   int    // element index when Indexed is set
	Indexed bool
}

func (s Segment) String() string {
	switch {
	case s.Label != "":
		return fmt.Sprintf("%s:%q", s.Label, s.Name)
	case s.Indexed:
		return fmt.Sprintf("%s[%d]", s.Name, s.Index)
	}
	return s.Name
}

// Path is the location of a value in the document. Paths are never
// modified in place; every builder method returns a new Path.
type Path []Segment

// RootLabel is how the empty path renders
const RootLabel = "document"

// Root returns the path of the document itself
func Root() Path { return nil }

// PluginScope returns the scope of one entry of the plugins mapping
func PluginScope(name string) Path {
	return Root().Keyed("plugin", name)
}

func (p Path) with(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// Field descends into a named member
func (p Path) Field(name string) Path {
	return p.with(Segment{Name: name})
}

// Index descends into element i of the array held by field name
func (p Path) Index(name string, i int) Path {
	return p.with(Segment{Name: name, Index: i, Indexed: true})
}

// Keyed descends into the mapping entry key, labelled for reports
func (p Path) Keyed(label, key string) Path {
	return p.with(Segment{Label: label, Name: key})
}

// HasPrefix reports whether p is prefix or lies below it
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Top returns the first segment rendered, or RootLabel for the root
func (p Path) Top() string {
	if len(p) == 0 {
		return RootLabel
	}
	return p[0].String()
}

func (p Path) String() string {
	if len(p) == 0 {
		return RootLabel
	}
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, " > ")
}

// MarshalText renders the path for JSON and YAML reports
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
