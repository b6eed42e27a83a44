// ABOUTME: Package documentation for the ui package
// ABOUTME: Describes the purpose and usage patterns for terminal styling

// Package ui provides terminal styling and output formatting for catalint
// commands using lipgloss.
//
// Usage:
//   - Use Print* functions for standalone messages: ui.PrintSuccess("catalog is valid")
//   - Use Fprint* functions when writing to a command's output stream
//   - Use inline helpers for composing output: fmt.Println(ui.Bold("plugin:"), ui.Muted(detail))
//   - Respects NO_COLOR and TERM=dumb
package ui
