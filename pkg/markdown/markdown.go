// Package markdown converts Markdown source into the normalized mdast tree.
//
// Convert is the single entry point used by the CLI and the runner: it parses
// the source, forwards parser diagnostics to the logger carried by the
// context, and applies the normalization pass.
package markdown

import (
	"context"
	"fmt"

	"github.com/voughtdq/ex-doc/internal/logging"
	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/mdast"
	"github.com/voughtdq/ex-doc/pkg/normalize"
	"github.com/voughtdq/ex-doc/pkg/parser/goldmark"
)

// Options are the conversion options. They are passed to the parser as is.
type Options = goldmark.Options

// Diagnostic is a message reported while parsing.
type Diagnostic = goldmark.Diagnostic

// Result is the outcome of a conversion.
type Result struct {
	// Document is the normalized tree.
	Document mdast.Document

	// Diagnostics are the parser messages, also sent to the context logger.
	Diagnostics []Diagnostic

	// FrontMatter holds decoded YAML front matter when enabled.
	FrontMatter map[string]any
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return goldmark.DefaultOptions()
}

// OptionsFromConfig builds conversion options from a resolved configuration.
// Unset toggles keep their defaults.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}

	opts.GFM = config.BoolValue(cfg.GFM, opts.GFM)
	opts.Breaks = config.BoolValue(cfg.Breaks, opts.Breaks)
	opts.Linkify = config.BoolValue(cfg.Linkify, opts.Linkify)
	opts.Math = config.BoolValue(cfg.Math, opts.Math)
	opts.FrontMatter = config.BoolValue(cfg.FrontMatter, opts.FrontMatter)
	opts.DetectLanguage = config.BoolValue(cfg.DetectLanguage, opts.DetectLanguage)
	if cfg.Line != 0 {
		opts.Line = cfg.Line
	}

	return opts
}

// Convert parses source and returns its normalized document.
//
// Diagnostics never fail the conversion; each one is logged with the file
// label and line. The only error is context cancellation.
func Convert(ctx context.Context, source []byte, opts Options) (*Result, error) {
	parsed, err := goldmark.New(opts).Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", labelOf(opts), err)
	}

	logDiagnostics(ctx, labelOf(opts), parsed.Diagnostics)

	return &Result{
		Document:    normalize.Document(parsed.Document),
		Diagnostics: parsed.Diagnostics,
		FrontMatter: parsed.FrontMatter,
	}, nil
}

// ToAST converts a Markdown string and returns only the document.
func ToAST(ctx context.Context, text string, opts Options) (mdast.Document, error) {
	result, err := Convert(ctx, []byte(text), opts)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

func logDiagnostics(ctx context.Context, file string, diags []Diagnostic) {
	if len(diags) == 0 {
		return
	}
	logger := logging.FromContext(ctx)
	for _, d := range diags {
		logger.Warn(d.Message,
			logging.FieldFile, file,
			logging.FieldLine, d.Line,
			logging.FieldSeverity, d.Severity,
		)
	}
}

func labelOf(opts Options) string {
	if opts.File == "" {
		return goldmark.NoFile
	}
	return opts.File
}
