package cli

import (
	"errors"
	"io/fs"

	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

// Exit codes for mdnorm.
const (
	// ExitSuccess indicates every file converted, with or without diagnostics.
	ExitSuccess = 0

	// ExitDiagnostics indicates --strict was set and diagnostics were reported.
	ExitDiagnostics = 1

	// ExitFileErrors indicates at least one input could not be converted.
	ExitFileErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors outside of conversion.
	ExitIOError = 74
)

var (
	// ErrDiagnosticsFound is returned in strict mode when any diagnostic was reported.
	ErrDiagnosticsFound = errors.New("diagnostics found")

	// ErrFilesFailed is returned when one or more inputs failed to convert.
	ErrFilesFailed = errors.New("one or more files failed to convert")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("invalid configuration")

	// ErrUsage wraps invalid flag combinations.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
// Diagnostics alone never fail a run unless strict is set.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.Stats.FilesErrored > 0 {
		return ExitFileErrors
	}
	if strict && result.Stats.DiagnosticsTotal > 0 {
		return ExitDiagnostics
	}
	return ExitSuccess
}

// ErrorFromExitCode maps a result exit code to the sentinel returned by RunE.
func ErrorFromExitCode(code int) error {
	switch code {
	case ExitSuccess:
		return nil
	case ExitDiagnostics:
		return ErrDiagnosticsFound
	default:
		return ErrFilesFailed
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDiagnosticsFound):
		return ExitDiagnostics
	case errors.Is(err, ErrFilesFailed):
		return ExitFileErrors
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSignal reports whether err only carries an exit status and needs no log line.
func IsSignal(err error) bool {
	return errors.Is(err, ErrDiagnosticsFound) || errors.Is(err, ErrFilesFailed)
}
