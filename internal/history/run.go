// ABOUTME: Run records describing one catalog validation for the history log
// ABOUTME: Each record gets a random UUID and per-kind violation counts
package history

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/plugincheck/catalint/internal/catalog"
)

// Run is one validation of one catalog file
type Run struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Catalog   string         `json:"catalog"`
	Format    string         `json:"format"`
	Total     int            `json:"total"`
	Failed    int            `json:"failed"`
	ByKind    map[string]int `json:"by_kind,omitempty"`
	Passed    bool           `json:"passed"`
}

// NewRun summarises rep as a run of the catalog at path. Relative paths are
// made absolute so runs from different directories compare equal.
func NewRun(path, format string, rep *catalog.Report, at time.Time) *Run {
	counts := rep.Counts()
	run := &Run{
		ID:        uuid.NewString(),
		Timestamp: at.UTC(),
		Catalog:   CanonicalPath(path),
		Format:    format,
		Total:     counts.Total,
		Failed:    counts.Failed,
		Passed:    rep.Passed(),
	}
	if byKind := rep.CountByKind(); len(byKind) > 0 {
		run.ByKind = make(map[string]int, len(byKind))
		for kind, n := range byKind {
			run.ByKind[string(kind)] = n
		}
	}
	return run
}

// CanonicalPath returns the absolute, cleaned form of path. Stdin and
// paths that cannot be resolved are returned unchanged.
func CanonicalPath(path string) string {
	if path == "" || path == "-" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// DefaultPath returns the history log location under a catalint home
func DefaultPath(home string) string {
	return filepath.Join(home, "history", "runs.jsonl")
}
