// Package output renders command results as text tables, JSON, markdown or
// TOON.
package output

import "strings"

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	default:
		return FormatText
	}
}

// Structured reports whether the format is meant for machines rather than
// terminals. Progress and status messages are suppressed for these.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatTOON
}
