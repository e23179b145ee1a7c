// Package runner orchestrates the load -> resolve -> render pipeline.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/donaldgifford/fmtconf/internal/options"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitConfig = 1
	ExitError  = 2
)

// Options configures the runner behavior.
type Options struct {
	Files      []string
	ConfigPath string
	Format     Format
	Explain    bool
	// Lenient drops options the matched parser does not recognize instead
	// of failing.
	Lenient bool
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *log.Logger
}

func (o *Options) setDefaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	if o.Logger == nil {
		o.Logger = NewLogger(o.Stderr, o.Quiet, o.Verbose)
	}
}

// NewLogger returns the diagnostic logger. Verbose enables debug output;
// quiet hides everything below errors.
func NewLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "fmtconf",
	})
	switch {
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	case verbose:
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Run resolves every file and renders the effective configurations, or
// their explanations when Explain is set. Files that fail are reported on
// Stderr and the remaining files are still processed.
func Run(opts *Options) int {
	opts.setDefaults()
	return run(opts, newSession(opts))
}

func run(opts *Options, s *session) int {
	exitCode := ExitOK
	results := make([]Result, 0, len(opts.Files))
	for _, path := range opts.Files {
		res, err := s.resolve(path)
		if err != nil {
			writeErr(opts.Stderr, "fmtconf: %s: %v\n", path, err)
			exitCode = max(exitCode, ExitCodeFor(err))
			continue
		}
		results = append(results, res)
	}

	if err := RenderResults(opts.Stdout, opts.Format, results); err != nil {
		writeErr(opts.Stderr, "fmtconf: %v\n", err)
		return ExitError
	}
	return exitCode
}

// Check resolves every file and reports failures without printing the
// configurations. With no files it only validates the configuration
// document.
func Check(opts *Options) int {
	opts.setDefaults()
	s := newSession(opts)

	if len(opts.Files) == 0 {
		c, err := s.configForDir(".")
		if err != nil {
			writeErr(opts.Stderr, "fmtconf: %v\n", err)
			return ExitCodeFor(err)
		}
		if !opts.Quiet {
			writeOut(opts.Stdout, fmt.Sprintf("%s: ok\n", c.name()))
		}
		return ExitOK
	}

	exitCode := ExitOK
	for _, path := range opts.Files {
		if _, err := s.resolve(path); err != nil {
			writeErr(opts.Stderr, "fmtconf: %s: %v\n", path, err)
			exitCode = max(exitCode, ExitCodeFor(err))
			continue
		}
		if !opts.Quiet {
			writeOut(opts.Stdout, fmt.Sprintf("%s: ok\n", path))
		}
	}
	return exitCode
}

// Defaults renders the built-in base configuration.
func Defaults(opts *Options) int {
	opts.setDefaults()
	if err := RenderOptions(opts.Stdout, opts.Format, options.Defaults()); err != nil {
		writeErr(opts.Stderr, "fmtconf: %v\n", err)
		return ExitError
	}
	return ExitOK
}

// ExitCodeFor maps an error to an exit code: configuration errors exit
// with ExitConfig, everything else with ExitError.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		cerr *resolver.InvalidConfigError
		gerr *resolver.InvalidGlobError
		uerr *resolver.UnknownOptionError
	)
	if errors.As(err, &cerr) || errors.As(err, &gerr) || errors.As(err, &uerr) {
		return ExitConfig
	}
	return ExitError
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
