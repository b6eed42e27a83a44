// ABOUTME: JSONL writer that persists validation runs to disk
// ABOUTME: and answers newest-first queries over them
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// Filters narrows a history query
type Filters struct {
	Catalog    string    // exact catalog path, canonicalised before matching
	FailedOnly bool      // only runs with violations
	Since      time.Time // only runs at or after this time
	Limit      int       // maximum runs returned, 0 for all
}

// Writer appends runs to a JSONL (JSON Lines) file
type Writer struct {
	logPath string
	mu      sync.Mutex
}

// NewWriter creates a writer for logPath, creating its directory
func NewWriter(logPath string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return &Writer{logPath: logPath}, nil
}

// Path returns the log file location
func (w *Writer) Path() string { return w.logPath }

// Write appends a run to the log file
func (w *Writer) Write(run *Run) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(w.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// Query reads runs from the log file, applies filters and returns the
// most recent first. A missing log holds no runs.
func (w *Writer) Query(filters Filters) ([]*Run, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Open(w.logPath)
	if os.IsNotExist(err) {
		return []*Run{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filters.Catalog != "" {
		filters.Catalog = CanonicalPath(filters.Catalog)
	}

	runs := []*Run{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var run Run
		if err := json.Unmarshal(scanner.Bytes(), &run); err != nil {
			// Skip malformed lines
			continue
		}
		if matchesFilters(&run, filters) {
			runs = append(runs, &run)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Newest first; of two runs with equal timestamps the later append wins
	slices.Reverse(runs)
	slices.SortStableFunc(runs, func(a, b *Run) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if filters.Limit > 0 && len(runs) > filters.Limit {
		runs = runs[:filters.Limit]
	}
	return runs, nil
}

func matchesFilters(run *Run, filters Filters) bool {
	if filters.Catalog != "" && run.Catalog != filters.Catalog {
		return false
	}
	if filters.FailedOnly && run.Passed {
		return false
	}
	if !filters.Since.IsZero() && run.Timestamp.Before(filters.Since) {
		return false
	}
	return true
}
