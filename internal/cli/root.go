// Package cli provides the Cobra command structure for mdnorm.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/voughtdq/ex-doc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdnorm command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdnorm",
		Short: "Convert Markdown into a normalized, renderer-ready AST",
		Long: `mdnorm converts Markdown documents into a normalized tree of elements,
text and comments that a documentation renderer can consume directly.

It understands CommonMark with GitHub Flavored Markdown, math, admonitions,
attribute lists and executable-notebook output markers, and reports
recoverable problems as diagnostics instead of failing.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newNormalizeCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
