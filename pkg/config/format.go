package config

import (
	"fmt"
	"strings"
)

// ValidFormats lists the accepted output format names.
func ValidFormats() []OutputFormat {
	return []OutputFormat{FormatJSON, FormatTree, FormatSummary}
}

// IsValid reports whether f names a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatTree, FormatSummary:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a user-supplied name into an OutputFormat.
// Matching is case-insensitive.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown output format %q (valid: json, tree, summary)", s)
	}
	return f, nil
}
