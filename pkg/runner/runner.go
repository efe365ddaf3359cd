package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/voughtdq/ex-doc/internal/logging"
	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/markdown"
)

// Runner converts files with a bounded worker pool.
type Runner struct {
	opts Options
}

// New creates a Runner for the given options.
func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Run discovers files under the configured paths and converts them
// concurrently. Outcomes are returned in path order regardless of which
// worker finished first.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	files, err := Discover(ctx, r.opts)
	if err != nil {
		return nil, err
	}

	result, err := r.RunFiles(ctx, files)
	if result != nil {
		result.Stats.Duration = time.Since(start)
	}
	return result, err
}

// RunFiles converts an explicit list of files, skipping discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	logging.FromContext(ctx).Debug("converting files",
		logging.FieldFilesDiscovered, len(files), logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.ConvertFile(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ConvertFile reads and converts a single file.
func (r *Runner) ConvertFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Info = info

	logging.FromContext(ctx).Debug("read file",
		logging.FieldPath, path, logging.FieldSize, humanize.Bytes(uint64(info.Size))) //nolint:gosec // Size is never negative.

	r.convert(ctx, &outcome, content)
	return outcome
}

// ConvertSource converts in-memory content, such as stdin, labelled name.
func (r *Runner) ConvertSource(ctx context.Context, name string, content []byte) FileOutcome {
	outcome := FileOutcome{Path: name}
	r.convert(ctx, &outcome, content)
	return outcome
}

// Collect wraps a single outcome in a Result with stats.
func Collect(outcomes ...FileOutcome) *Result {
	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, o := range outcomes {
		result.accumulate(o)
	}
	return result
}

func (r *Runner) convert(ctx context.Context, outcome *FileOutcome, content []byte) {
	opts := r.opts.Convert
	opts.File = outcome.Path

	converted, err := markdown.Convert(ctx, content, opts)
	if err != nil {
		outcome.Error = err
		return
	}

	outcome.Document = converted.Document
	outcome.Diagnostics = converted.Diagnostics
	outcome.FrontMatter = converted.FrontMatter
}
