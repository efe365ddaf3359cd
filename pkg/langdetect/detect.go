// Package langdetect guesses the language of an unlabeled code block so the
// parser can attach a language class to it. It relies on go-enry for shebang
// and classifier based detection, with a few cheap patterns tried first.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// PlainText is returned when no language could be determined.
const PlainText = "text"

// Language constants for patterns matched before the classifier runs.
const (
	langElixir = "elixir"
	langErlang = "erlang"
	langJSON   = "json"
	langShell  = "shell"
	langHTML   = "html"
)

// candidates are the languages the classifier chooses between. The list leans
// towards what shows up in Elixir project documentation.
//
//nolint:gochecknoglobals // Read-only classifier input.
var candidates = []string{
	"Elixir", "Erlang", "Shell", "JSON", "YAML", "HTML", "CSS",
	"JavaScript", "SQL", "Markdown", "Dockerfile", "Makefile",
	"Go", "Python", "Ruby", "Rust", "C",
}

// Detect returns the fence tag for code content, or PlainText when detection
// fails or is not confident.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return PlainText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(trimmed); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return PlainText
}

// detectByPattern checks markers that identify a language without any doubt.
func detectByPattern(trimmed []byte) string {
	s := string(trimmed)

	switch {
	case strings.HasPrefix(s, "iex>"), strings.HasPrefix(s, "defmodule "),
		strings.Contains(s, "\ndefmodule "):
		return langElixir
	case strings.HasPrefix(s, "-module("), strings.HasPrefix(s, "1>"):
		return langErlang
	case strings.HasPrefix(s, "$ "), strings.HasPrefix(s, "mix "):
		return langShell
	case (trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}') ||
		(trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']' && strings.Contains(s, "\"")):
		if looksLikeJSON(trimmed) {
			return langJSON
		}
	case strings.HasPrefix(s, "<!DOCTYPE"), strings.HasPrefix(s, "<html"):
		return langHTML
	}

	return ""
}

// looksLikeJSON requires a quoted key or string right after the opening bracket.
func looksLikeJSON(trimmed []byte) bool {
	inner := bytes.TrimSpace(trimmed[1:])
	return len(inner) > 0 && (inner[0] == '"' || inner[0] == '{' || inner[0] == ']' || inner[0] == '}')
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	return strings.ToLower(lang)
}
