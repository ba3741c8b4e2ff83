package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// rerunQuiet is how long a file must stay untouched before it is re-run;
// editors emit several events per save.
const rerunQuiet = 100 * time.Millisecond

// watchScenarios calls rerun with the original path of a scenario each time
// its file is written, until ctx is cancelled. Parent directories are watched
// so that editors replacing files by rename are still seen.
func watchScenarios(ctx context.Context, files []string, rerun func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	slog.Info("watching scenarios", "files", len(files), "dirs", len(dirs))

	errc := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		err := watchLoop(ctx, watcher, watched, rerun)
		errc <- err
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		slog.Error("scenario watcher failed", "error", err)
	}))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return nil
	}
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]string, rerun func(string)) error {
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(rerunQuiet)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if path, ok := watched[abs]; ok {
				slog.Debug("scenario changed", "path", path, "op", event.Op.String())
				pending[path] = time.Now()
			}

		case now := <-ticker.C:
			for path, touched := range pending {
				if now.Sub(touched) < rerunQuiet {
					continue
				}
				delete(pending, path)
				rerun(path)
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Error("fsnotify error", "error", wErr)
		}
	}
}
