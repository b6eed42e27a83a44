// ABOUTME: Rendering functions for report headers, sections, status lines, and details
// ABOUTME: Header boxes grow to fit long catalog paths instead of wrapping them
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// HeaderWidth is the minimum width of header boxes
	HeaderWidth = 42

	// headerPadding covers the border and horizontal padding of a header box
	headerPadding = 6
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 2).
			Align(lipgloss.Center)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// RenderHeader returns a boxed title, at least HeaderWidth wide
func RenderHeader(title string) string {
	width := max(HeaderWidth, lipgloss.Width(title)+headerPadding)
	return headerStyle.Width(width).Render(title)
}

// RenderSection returns a styled section header with optional count.
// Pass -1 for count to omit it.
func RenderSection(title string, count int) string {
	if count < 0 {
		return sectionStyle.Render(title)
	}
	return sectionStyle.Render(fmt.Sprintf("%s (%d)", title, count))
}

// RenderDetail returns "label: value" with a muted label
func RenderDetail(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

// Indent prefixes s with two spaces per level
func Indent(s string, level int) string {
	if level <= 0 {
		return s
	}
	return strings.Repeat("  ", level) + s
}

// RenderStatus returns label prefixed with a pass or fail symbol
func RenderStatus(passed bool, label string) string {
	if passed {
		return successStyle.Render(SymbolSuccess) + " " + label
	}
	return errorStyle.Render(SymbolError) + " " + label
}
