// Package colors provides pre-configured color functions for CLI output.
package colors

import "github.com/fatih/color"

//nolint:gochecknoglobals // Immutable color definitions initialized at package load
var (
	// Warning formats text in yellow for warning messages.
	Warning = color.New(color.FgYellow).SprintFunc()

	// Error formats text in red for error messages.
	Error = color.New(color.FgRed).SprintFunc()

	// Success formats text in green for success messages.
	Success = color.New(color.FgGreen).SprintFunc()

	// Info formats text in cyan for informational messages.
	Info = color.New(color.FgCyan).SprintFunc()

	// FieldLabel formats field labels (e.g., "Location:", "State:") in cyan.
	FieldLabel = color.New(color.FgCyan).SprintFunc()

	// Failed formats "Failed" text in red.
	Failed = color.New(color.FgRed).SprintFunc()
)
