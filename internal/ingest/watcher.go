package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Dir                string        // watched directly, not recursively
	AllowedExts        []string      // empty means the default extensions
	IncompletePrefixes []string
	InitialScan        bool          // emit documents already present before watching
	Debounce           time.Duration // coalesce bursts of writes from the scanner
}

// Watch emits paths of documents that appear or change in cfg.Dir.
// Both channels are closed when ctx is done or the watcher fails.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		return nil, nil, errors.New("watch dir is required")
	}
	exts := extSet(cfg.AllowedExts)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}
	if err := w.Add(cfg.Dir); err != nil {
		_ = w.Close()
		logger.Error("failed to watch directory", "dir", cfg.Dir, "error", err)
		return nil, nil, err
	}

	var initial []string
	if cfg.InitialScan {
		if initial, _, err = Discover(cfg.Dir, cfg.AllowedExts, cfg.IncompletePrefixes); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}()

		send := func(p string) bool {
			select {
			case evCh <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range initial {
			if !send(p) {
				return
			}
		}

		// pending and the timer belong to this goroutine only
		pending := map[string]struct{}{}
		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		flush := func() bool {
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			for _, p := range paths {
				// renamed away or replaced by a directory before the burst settled
				if fi, err := os.Stat(p); err != nil || fi.IsDir() {
					continue
				}
				if !send(p) {
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				// A rename into the directory arrives as Create for the new name, both
				// for scanners that write through a temp name and for our own renames.
				// The pending set drops vanished temp names at flush, and a re-emitted
				// canonical target ends as SkippedIdentical without being renamed again.
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) {
					continue
				}
				if !accepted(filepath.Base(e.Name), exts, cfg.IncompletePrefixes) {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce <= 0 {
					if !flush() {
						return
					}
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if !flush() {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}
