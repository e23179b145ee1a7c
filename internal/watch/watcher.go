// Package watch reports changes to configuration documents.
//
// A Watcher observes a fixed set of file paths, which need not exist yet,
// and invokes a callback once events on those paths go quiet for the
// debounce period. Editors that save by writing a temp file and renaming it
// produce several events; they are coalesced into one callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period before the callback fires.
const defaultDebounce = 200 * time.Millisecond

// Config holds the parameters for a Watcher.
type Config struct {
	// Files are the paths to watch. Their parent directories must exist.
	Files []string

	// Debounce is the quiet period after the last event before the callback
	// fires. Zero or negative values fall back to defaultDebounce.
	Debounce time.Duration

	// OnChange is called with the sorted, deduplicated absolute paths that
	// changed. A nil callback is a no-op.
	OnChange func(ctx context.Context, changed []string) error

	Logger *log.Logger
}

// Watcher fires a debounced callback when any watched file is created,
// written, removed or renamed. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	targets  map[string]struct{}
	debounce time.Duration
	logger   *log.Logger
	started  atomic.Bool
}

// New creates a Watcher and registers the parent directory of every file.
// Directories are watched rather than files so that replacing a file by
// rename is still observed.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}

	targets := make(map[string]struct{}, len(cfg.Files))
	dirs := make(map[string]struct{})
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", f, err)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		if err := fsw.Add(dir); err != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		targets:  targets,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Files returns the watched paths in sorted order.
func (w *Watcher) Files() []string {
	return slices.Sorted(maps.Keys(w.targets))
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled because it is scheduled with
	// time.AfterFunc. Overlapping callbacks are skipped and retried.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			name := filepath.Clean(evt.Name)
			if _, watched := w.targets[name]; !watched {
				continue
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("config event", "path", name, "op", evt.Op.String())

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("events dropped", "err", err)
				continue
			}
			w.logger.Error("fsnotify error", "err", err)
		}
	}
}
