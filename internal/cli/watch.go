package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"

	"github.com/voughtdq/ex-doc/internal/logging"
	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

// watcher re-converts files whose content changes after the initial run.
type watcher struct {
	normalizer *runner.Runner
	opts       runner.Options
	emit       emitFunc
	known      map[string]*fsutil.FileInfo
}

// watch blocks until ctx is cancelled, re-emitting a single-file result for
// every tracked file whose content changed.
func watch(ctx context.Context, normalizer *runner.Runner, opts runner.Options, initial *runner.Result, emit emitFunc) error {
	logger := logging.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fsw.Close()

	w := &watcher{
		normalizer: normalizer,
		opts:       opts,
		emit:       emit,
		known:      make(map[string]*fsutil.FileInfo, len(initial.Files)),
	}
	for _, file := range initial.Files {
		w.known[file.Path] = file.Info
	}

	dirs := watchDirs(initial, opts.WorkingDir)
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Info("watching for changes", logging.FieldPaths, len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, event); err != nil {
				return err
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}

func (w *watcher) handle(ctx context.Context, event fsnotify.Event) error {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return nil
	}

	path := filepath.Clean(event.Name)
	info, tracked := w.known[path]
	if !tracked && !w.opts.Accepts(path) {
		return nil
	}

	if info != nil {
		changed, err := fsutil.ContentChanged(ctx, info)
		if err != nil || !changed {
			return nil //nolint:nilerr // A vanished file is picked up by the next event.
		}
	}

	outcome := w.normalizer.ConvertFile(ctx, path)
	w.known[path] = outcome.Info

	logging.FromContext(ctx).Info("converted", logging.FieldPath, path,
		logging.FieldDiagnosticsTotal, len(outcome.Diagnostics))

	return w.emit(ctx, runner.Collect(outcome))
}

// watchDirs returns the sorted parent directories of every converted file,
// or fallback when nothing was converted.
func watchDirs(result *runner.Result, fallback string) []string {
	if len(result.Files) == 0 {
		return []string{fallback}
	}
	seen := make(map[string]struct{})
	for _, file := range result.Files {
		seen[filepath.Dir(file.Path)] = struct{}{}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
