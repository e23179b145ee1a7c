// Package cli defines the fmtconf command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/fmtconf/internal/runner"
)

// BuildInfo is the version metadata stamped in at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type app struct {
	build  BuildInfo
	stdout io.Writer
	stderr io.Writer

	configPath string
	format     string
	lenient    bool
	quiet      bool
	verbose    bool
	debounce   time.Duration

	// exitCode is set by command handlers to control the process exit code.
	exitCode int
}

// Run executes the command line with args and returns the exit code.
func Run(ctx context.Context, build BuildInfo, args []string, stdout, stderr io.Writer) int {
	a := &app{build: build, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return runner.ExitError
	}
	return a.exitCode
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fmtconf [files...]",
		Short: "Resolve effective formatter configuration per file",
		Long: `fmtconf computes the formatter options that apply to a file from a base
configuration and an ordered list of glob-scoped overrides. Later overrides
win; pattern specificity plays no part.

With file arguments and no subcommand, fmtconf behaves like "fmtconf resolve".`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.resolve(args, false)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to config file (default: discovered upward from each file)")
	pf.StringVarP(&a.format, "format", "f", string(runner.FormatText), "output format: text, json, yaml or toml")
	pf.BoolVar(&a.lenient, "lenient", false, "drop options the file's parser does not recognize instead of failing")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log config discovery and resolution")
	root.MarkFlagsMutuallyExclusive("quiet", "verbose")

	root.AddCommand(
		a.resolveCmd(),
		a.explainCmd(),
		a.checkCmd(),
		a.watchCmd(),
		a.defaultsCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <files...>",
		Short: "Print the effective configuration for each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(args, false)
		},
	}
}

func (a *app) explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <files...>",
		Short: "Print each effective option with the rule that set it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(args, true)
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate the configuration, optionally against files",
		Long: `Check resolves every file and reports errors without printing the
configurations. With no files it validates the configuration document that
governs the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(args)
			if err != nil {
				return err
			}
			a.exitCode = runner.Check(opts)
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <files...>",
		Short: "Re-print the effective configuration whenever the config changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(args)
			if err != nil {
				return err
			}
			a.exitCode = runner.Watch(cmd.Context(), opts, a.debounce)
			return nil
		},
	}
	cmd.Flags().DurationVar(&a.debounce, "debounce", 200*time.Millisecond, "quiet period before re-rendering")
	return cmd
}

func (a *app) defaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in base configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(nil)
			if err != nil {
				return err
			}
			a.exitCode = runner.Defaults(opts)
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print fmtconf version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "fmtconf %s (%s) %s\n", a.build.Version, a.build.Commit, a.build.Date)
		},
	}
}

func (a *app) resolve(files []string, explain bool) error {
	opts, err := a.options(files)
	if err != nil {
		return err
	}
	opts.Explain = explain
	a.exitCode = runner.Run(opts)
	return nil
}

func (a *app) options(files []string) (*runner.Options, error) {
	format, err := runner.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return &runner.Options{
		Files:      files,
		ConfigPath: a.configPath,
		Format:     format,
		Lenient:    a.lenient,
		Quiet:      a.quiet,
		Verbose:    a.verbose,
		Stdout:     a.stdout,
		Stderr:     a.stderr,
		Logger:     runner.NewLogger(a.stderr, a.quiet, a.verbose),
	}, nil
}
