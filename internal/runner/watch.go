package runner

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/donaldgifford/fmtconf/internal/cache"
	"github.com/donaldgifford/fmtconf/internal/config"
	"github.com/donaldgifford/fmtconf/internal/watch"
)

// Watch renders the files once, then again every time a configuration
// document that governs them is created, edited or removed. It returns when
// ctx is cancelled.
func Watch(ctx context.Context, opts *Options, debounce time.Duration) int {
	opts.setDefaults()

	targets, err := watchTargets(opts)
	if err != nil {
		writeErr(opts.Stderr, "fmtconf: %v\n", err)
		return ExitError
	}

	// Results survive reloads that leave a configuration unchanged.
	shared := cache.New()
	render := func() {
		s := newSession(opts)
		s.cache = shared
		code := run(opts, s)
		purged := shared.Purge(s.fingerprints()...)
		opts.Logger.Debug("rendered", "exit", code, "purged", purged)
	}

	w, err := watch.New(watch.Config{
		Files:    targets,
		Debounce: debounce,
		Logger:   opts.Logger,
		OnChange: func(_ context.Context, changed []string) error {
			opts.Logger.Info("config changed", "files", changed)
			render()
			return nil
		},
	})
	if err != nil {
		writeErr(opts.Stderr, "fmtconf: %v\n", err)
		return ExitError
	}

	render()
	opts.Logger.Debug("watching", "files", w.Files())
	if err := w.Run(ctx); err != nil {
		writeErr(opts.Stderr, "fmtconf: %v\n", err)
		return ExitError
	}
	return ExitOK
}

// watchTargets returns the config paths to watch: the explicit config, or
// every candidate name in the directory of each file's governing config.
// Watching all candidates catches a higher-priority file being added.
func watchTargets(opts *Options) ([]string, error) {
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		return []string{abs}, nil
	}

	var targets []string
	for _, file := range opts.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(abs)
		found, err := config.FindUp(dir)
		if err != nil {
			return nil, err
		}
		if found != "" {
			dir = filepath.Dir(found)
		}
		for _, name := range config.FileNames() {
			targets = append(targets, filepath.Join(dir, name))
		}
	}
	slices.Sort(targets)
	return slices.Compact(targets), nil
}

func (s *session) fingerprints() []uint64 {
	out := make([]uint64, 0, len(s.configs))
	for _, c := range s.configs {
		out = append(out, c.fingerprint)
	}
	return out
}
