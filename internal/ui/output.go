// ABOUTME: Print helper functions for consistent CLI output
// ABOUTME: Provides success, error, warning, info, muted styles and error formatting
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	infoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// PrintSuccess prints a success message with checkmark symbol
func PrintSuccess(msg string) { FprintSuccess(os.Stdout, msg) }

// PrintError prints an error message with X symbol
func PrintError(msg string) { FprintError(os.Stdout, msg) }

// PrintWarning prints a warning message with warning symbol
func PrintWarning(msg string) { FprintWarning(os.Stdout, msg) }

// PrintInfo prints an info message with info symbol
func PrintInfo(msg string) { FprintInfo(os.Stdout, msg) }

// PrintMuted prints a muted/secondary message
func PrintMuted(msg string) { fmt.Fprintln(os.Stdout, mutedStyle.Render(msg)) }

// FprintSuccess writes a success line to w
func FprintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(SymbolSuccess+" "+msg))
}

// FprintError writes an error line to w
func FprintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(SymbolError+" "+msg))
}

// FprintWarning writes a warning line to w
func FprintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(SymbolWarning+" "+msg))
}

// FprintInfo writes an info line to w
func FprintInfo(w io.Writer, msg string) {
	fmt.Fprintln(w, infoStyle.Render(SymbolInfo+" "+msg))
}

// FormatError renders a command error for stderr
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return errorStyle.Render(SymbolError+" Error:") + " " + err.Error()
}

// Muted returns a string styled as muted (for inline use)
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Bold returns a string styled as bold (for inline use)
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Success returns a string styled as success (for inline use)
func Success(s string) string {
	return successStyle.Render(s)
}

// Error returns a string styled as error (for inline use)
func Error(s string) string {
	return errorStyle.Render(s)
}

// Warning returns a string styled as warning (for inline use)
func Warning(s string) string {
	return warningStyle.Render(s)
}

// Info returns a string styled as info (for inline use)
func Info(s string) string {
	return infoStyle.Render(s)
}
