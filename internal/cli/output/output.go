// Package output handles formatted output for the CLI.
//
// Show and list commands render either labeled text fields or, with
// --output=json, the raw resource model serialized as indented JSON.
// Colors are automatically disabled when output is not a TTY, keeping
// piped output clean.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/azctl/azctl/internal/cli/colors"
)

// Format represents the output format.
type Format string

const (
	// FormatText is the default human-readable text format.
	FormatText Format = "text"
	// FormatJSON outputs structured JSON.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string and returns the Format.
// Returns FormatText for empty string or invalid values.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Writer provides formatted output methods.
type Writer struct {
	w io.Writer
}

// New creates a new output writer.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Field prints a labeled field.
func (o *Writer) Field(label, value string) {
	_, _ = fmt.Fprintf(o.w, "%s %s\n", colors.FieldLabel(label+":"), value)
}

// Line prints a plain line.
func (o *Writer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format+"\n", args...)
}

// Separator prints an empty line between records.
func (o *Writer) Separator() {
	_, _ = fmt.Fprintln(o.w)
}

// JSON prints v as indented JSON. Resource models serialize through the
// SDK's marshalers, so the shape matches what the service returned.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render JSON: %w", err)
	}
	_, _ = fmt.Fprintln(w, string(data))
	return nil
}

// Warning prints a warning message in yellow.
//
//nolint:goprintffuncname // intentionally named without 'f' suffix for cleaner API
func Warning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(w, colors.Warning("Warning: "+msg))
}

// Error prints an error message in red.
// Used for user-facing error messages that are not Go errors.
//
//nolint:goprintffuncname // intentionally named without 'f' suffix for cleaner API
func Error(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(w, colors.Error("Error: "+msg))
}

// Success prints a success message with green checkmark.
// Example: "✓ Created IoT hub my-hub".
//
//nolint:goprintffuncname // intentionally named without 'f' suffix for cleaner API
func Success(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n", colors.Success("✓"), msg)
}

// Info prints an informational message in cyan.
//
//nolint:goprintffuncname // intentionally named without 'f' suffix for cleaner API
func Info(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(w, colors.Info(msg))
}

// Printf prints plain formatted text.
func Printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
