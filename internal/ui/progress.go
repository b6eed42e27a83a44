// ABOUTME: Progress display for validating several catalog files in one run
// ABOUTME: Redraws a bar with recent files on a TTY and streams lines otherwise
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ItemResult is the outcome of one validated file
type ItemResult struct {
	Name    string
	Success bool
	Error   string // violation summary or load error; empty on success
}

// Progress tracks how many of a known number of files have been validated
type Progress struct {
	label         string
	total         int
	completed     int
	failed        int
	items         []ItemResult // sliding window of recent results
	window        int
	linesRendered int
	mu            sync.Mutex
}

// NewProgress creates a tracker for total items, showing the last window
// results on a terminal
func NewProgress(label string, total, window int) *Progress {
	if window <= 0 {
		window = 5
	}
	return &Progress{label: label, total: total, window: window}
}

// Record stores a result and writes the update to w
func (p *Progress) Record(w io.Writer, result ItemResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
	if !result.Success {
		p.failed++
	}
	p.items = append(p.items, result)
	if len(p.items) > p.window {
		p.items = p.items[len(p.items)-p.window:]
	}

	if IsTerminal(w) {
		p.renderTTY(w)
		return
	}
	fmt.Fprintf(w, "[%d/%d] %s\n", p.completed, p.total, renderItemLine(result)[2:])
}

// Done reports whether every item has been recorded
func (p *Progress) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed >= p.total
}

// Failed returns the number of failed items recorded so far
func (p *Progress) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Rendering constants
const (
	barWidth  = 20
	barFilled = '━'
	barEmpty  = '░'
)

func renderProgressBar(completed, total, width int) string {
	if total == 0 {
		return string(repeatRune(barEmpty, width))
	}

	filled := (completed * width) / total
	if filled > width {
		filled = width
	}
	return string(repeatRune(barFilled, filled)) + string(repeatRune(barEmpty, width-filled))
}

// renderBarLine renders "Catalogs     ━━━━━━━━━━░░░░░░░░░░ 2/4 (1 failed)"
func (p *Progress) renderBarLine() string {
	bar := renderProgressBar(p.completed, p.total, barWidth)
	count := fmt.Sprintf("%d/%d", p.completed, p.total)

	status := ""
	if p.completed >= p.total {
		if p.failed == 0 {
			status = " " + Success(SymbolSuccess)
		} else {
			status = " " + Error(SymbolError)
		}
	}

	failed := ""
	if p.failed > 0 {
		failed = fmt.Sprintf(" (%d failed)", p.failed)
	}
	return fmt.Sprintf("%s %s %s%s%s", padRight(p.label, 12), bar, count, status, Muted(failed))
}

func renderItemLine(item ItemResult) string {
	if item.Success {
		return fmt.Sprintf("  %s %s", Success(SymbolSuccess), item.Name)
	}

	errMsg := ""
	if item.Error != "" {
		errMsg = fmt.Sprintf(" (%s)", item.Error)
	}
	return fmt.Sprintf("  %s %s%s", Error(SymbolError), item.Name, Muted(errMsg))
}

func repeatRune(r rune, n int) []rune {
	if n <= 0 {
		return []rune{}
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = r
	}
	return result
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + string(repeatRune(' ', width-len(s)))
}

// renderTTY redraws the bar and the recent items in place
func (p *Progress) renderTTY(w io.Writer) {
	if p.linesRendered > 0 {
		fmt.Fprintf(w, "\033[%dA", p.linesRendered)
	}

	fmt.Fprintf(w, "\033[K%s\n", p.renderBarLine())
	lines := 1
	for _, item := range p.items {
		fmt.Fprintf(w, "\033[K%s\n", renderItemLine(item))
		lines++
	}
	p.linesRendered = lines
}

// Finish clears the recent items on a terminal, leaving the bar
func (p *Progress) Finish(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !IsTerminal(w) || p.linesRendered <= 1 {
		return
	}

	extra := p.linesRendered - 1
	fmt.Fprintf(w, "\033[%dA", extra)
	for range extra {
		fmt.Fprintf(w, "\033[K\n")
	}
	fmt.Fprintf(w, "\033[%dA", extra)
	p.linesRendered = 1
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
