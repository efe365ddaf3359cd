package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/voughtdq/ex-doc/internal/configloader"
	"github.com/voughtdq/ex-doc/internal/logging"
	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/reporter"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

// outputFilePermissions is the mode of files written to --output-dir.
const outputFilePermissions = 0o644

type normalizeFlags struct {
	directory      string
	format         string
	jobs           int
	ignore         []string
	extensions     []string
	noGFM          bool
	breaks         bool
	noLinkify      bool
	noMath         bool
	frontMatter    bool
	detectLanguage bool
	line           int
	outputDir      string
	strict         bool
	compact        bool
	followSymlinks bool
	watch          bool
	stdin          bool
	stdinName      string
}

func newNormalizeCommand() *cobra.Command {
	flags := &normalizeFlags{}

	cmd := &cobra.Command{
		Use:     "normalize [paths...]",
		Aliases: []string{"ast"},
		Short:   "Convert Markdown files to a normalized AST",
		Long:    normalizeLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, flags)
		},
	}

	addNormalizeFlags(cmd.Flags(), flags)

	return cmd
}

const normalizeLongDescription = `Convert Markdown files into the normalized element tree.

By default, converts every .md, .markdown, .cheatmd and .livemd file below
the current directory. Specify paths to convert specific files or directories.
Files named explicitly are converted whatever their extension.

Examples:
  mdnorm normalize                      # Convert the current directory
  mdnorm normalize guides/              # Convert a directory
  mdnorm ast README.md --format tree    # Print one file as an outline
  mdnorm normalize --output-dir _build  # Write one JSON file per input
  cat notes.md | mdnorm normalize --stdin --line 40
  mdnorm normalize --watch --format tree`

func addNormalizeFlags(fs *pflag.FlagSet, flags *normalizeFlags) {
	fs.StringVarP(&flags.directory, "directory", "C", "", "run as if started in this directory")
	fs.StringVar(&flags.format, "format", "", "output format: json, tree, summary (default tree on a terminal, json otherwise)")
	fs.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	fs.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	fs.StringSliceVar(&flags.extensions, "extensions", nil, "file extensions picked up in directories")

	fs.BoolVar(&flags.noGFM, "no-gfm", false, "disable GitHub Flavored Markdown extensions")
	fs.BoolVar(&flags.breaks, "breaks", false, "turn soft line breaks into <br>")
	fs.BoolVar(&flags.noLinkify, "no-linkify", false, "do not turn bare URLs into links")
	fs.BoolVar(&flags.noMath, "no-math", false, "disable $inline$ and $$display$$ math")
	fs.BoolVar(&flags.frontMatter, "front-matter", false, "extract a leading YAML front matter block")
	fs.BoolVar(&flags.detectLanguage, "detect-language", false, "label unlabeled code blocks by content")
	fs.IntVar(&flags.line, "line", 1, "line number of the first source line")

	fs.StringVar(&flags.outputDir, "output-dir", "", "write one JSON document per input below this directory")
	fs.BoolVar(&flags.strict, "strict", false, "exit non-zero when any diagnostic is reported")
	fs.BoolVar(&flags.compact, "compact", false, "write minified JSON")
	fs.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk into symlinked directories")
	fs.BoolVar(&flags.watch, "watch", false, "re-convert files as they change")
	fs.BoolVar(&flags.stdin, "stdin", false, "read a single document from standard input")
	fs.StringVar(&flags.stdinName, "stdin-name", "", "file label used in diagnostics for --stdin input")
}

// cliConfig builds the configuration layer for flags the user actually set,
// so unset flags never override files or the environment.
func cliConfig(fs *pflag.FlagSet, flags *normalizeFlags) (*config.Config, error) {
	cfg := &config.Config{}

	if fs.Changed("format") {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Format = format
	}
	if fs.Changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if fs.Changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if fs.Changed("extensions") {
		cfg.Extensions = flags.extensions
	}
	if fs.Changed("no-gfm") {
		cfg.GFM = config.Bool(!flags.noGFM)
	}
	if fs.Changed("breaks") {
		cfg.Breaks = config.Bool(flags.breaks)
	}
	if fs.Changed("no-linkify") {
		cfg.Linkify = config.Bool(!flags.noLinkify)
	}
	if fs.Changed("no-math") {
		cfg.Math = config.Bool(!flags.noMath)
	}
	if fs.Changed("front-matter") {
		cfg.FrontMatter = config.Bool(flags.frontMatter)
	}
	if fs.Changed("detect-language") {
		cfg.DetectLanguage = config.Bool(flags.detectLanguage)
	}
	if fs.Changed("line") {
		cfg.Line = flags.line
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	cfg.Strict = flags.strict

	return cfg, nil
}

func runNormalize(cmd *cobra.Command, args []string, flags *normalizeFlags) error {
	if flags.stdin && (len(args) > 0 || flags.watch) {
		return fmt.Errorf("%w: --stdin cannot be combined with paths or --watch", ErrUsage)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newCommandLogger(cmd, flags.watch)
	ctx = logging.WithLogger(ctx, logger)

	workDir, err := resolveDirectory(flags.directory)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, cmd, flags, workDir)
	if err != nil {
		return err
	}

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir
	opts.FollowSymlinks = flags.followSymlinks
	normalizer := runner.New(opts)

	emit, err := newEmitter(cmd, cfg, flags, workDir)
	if err != nil {
		return err
	}

	if flags.stdin {
		return runStdin(ctx, cmd, normalizer, cfg, flags, emit)
	}

	logger.Debug("starting run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, workDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := normalizer.Run(ctx)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	logger.Debug("run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldDuration, result.Stats.Duration.Round(time.Millisecond),
	)

	if err := emit(ctx, result); err != nil {
		return err
	}

	if flags.watch {
		return watch(ctx, normalizer, opts, result, emit)
	}

	return ErrorFromExitCode(ExitCodeFromResult(result, cfg.Strict))
}

func runStdin(
	ctx context.Context,
	cmd *cobra.Command,
	normalizer *runner.Runner,
	cfg *config.Config,
	flags *normalizeFlags,
	emit emitFunc,
) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	name := flags.stdinName
	if name == "" {
		name = "stdin"
	}

	result := runner.Collect(normalizer.ConvertSource(ctx, name, content))
	if err := emit(ctx, result); err != nil {
		return err
	}
	return ErrorFromExitCode(ExitCodeFromResult(result, cfg.Strict))
}

// newCommandLogger writes to the command's stderr at the level chosen by --debug.
func newCommandLogger(cmd *cobra.Command, interactive bool) *log.Logger {
	var logger *log.Logger
	if interactive {
		logger = logging.NewInteractive()
	} else {
		logger = logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	}
	logger.SetLevel(logging.Default().GetLevel())
	return logger
}

func resolveDirectory(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrUsage, dir)
	}
	return abs, nil
}

func loadConfig(ctx context.Context, cmd *cobra.Command, flags *normalizeFlags, workDir string) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	overrides, err := cliConfig(cmd.Flags(), flags)
	if err != nil {
		return nil, err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}

	return loaded.Config, nil
}

// emitFunc reports a result and writes any per-file outputs.
type emitFunc func(ctx context.Context, result *runner.Result) error

func newEmitter(cmd *cobra.Command, cfg *config.Config, flags *normalizeFlags, workDir string) (emitFunc, error) {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	out := cmd.OutOrStdout()
	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		Format:      resolveFormat(cfg.Format, out),
		Color:       colorMode,
		Compact:     flags.compact,
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}

	return func(ctx context.Context, result *runner.Result) error {
		if cfg.OutputDir != "" {
			if err := writeOutputs(ctx, result, cfg.OutputDir, workDir, flags.compact); err != nil {
				return err
			}
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}
		return nil
	}, nil
}

// resolveFormat picks tree output for terminals and JSON for pipes when no
// format was configured.
func resolveFormat(format config.OutputFormat, out io.Writer) config.OutputFormat {
	if format != "" {
		return format
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in int.
		return config.FormatTree
	}
	return config.FormatJSON
}

// writeOutputs mirrors each converted input as a JSON file below outDir.
// Unchanged outputs are left untouched so their modification time is kept.
func writeOutputs(ctx context.Context, result *runner.Result, outDir, workDir string, compact bool) error {
	logger := logging.FromContext(ctx)
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	for _, file := range result.Files {
		if file.Error != nil {
			continue
		}

		source := file.Path
		if rel, err := filepath.Rel(workDir, file.Path); err == nil && filepath.IsAbs(file.Path) {
			source = rel
		}
		target := fsutil.OutputPath(outDir, source)
		file.Path = source

		data, err := reporter.MarshalFile(file, compact)
		if err != nil {
			return err
		}

		written, err := fsutil.WriteAtomicIfChanged(ctx, target, data, outputFilePermissions)
		if err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		if written {
			logger.Debug("wrote output", logging.FieldInput, file.Path, logging.FieldOutput, target)
		}
	}
	return nil
}
