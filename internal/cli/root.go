// Package cli implements the cobra-based command for overcast-launcher.
//
// The launcher has a single zero-argument command. This file wires the
// real host (os/exec, os-release, Docker socket, console streams) into
// the launcher pipeline and turns its result into a process exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/overcast-launcher/internal/config"
	"github.com/shinji-kodama/overcast-launcher/internal/docker"
	"github.com/shinji-kodama/overcast-launcher/internal/handoff"
	"github.com/shinji-kodama/overcast-launcher/internal/launcher"
	"github.com/shinji-kodama/overcast-launcher/internal/model"
	"github.com/shinji-kodama/overcast-launcher/internal/observability"
	"github.com/shinji-kodama/overcast-launcher/internal/platform"
	"github.com/shinji-kodama/overcast-launcher/internal/python"
)

const appName = "overcast-launcher"

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// exitError carries an exit code for a failure that has already been
// shown to the user, so Execute must not print it again.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// host is the outside world a launch runs against. Tests substitute
// their own directory, environment and streams.
type host struct {
	dir    string
	getenv func(string) string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// spawner overrides the exec spawner; nil uses handoff.ExecSpawner
	// attached to stdin/stdout/stderr.
	spawner handoff.Spawner
}

// NewRootCommand creates the launcher command.
//
// It accepts no positional arguments and defines no flags of its own;
// cobra's --help and --version are the only options.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Check prerequisites and start the Overcast Agent installer",
		Long: `overcast-launcher checks that Python 3.9+ and Tkinter are installed and that
overcast_installer.py and overcast_agent_template.py are in the current
directory, then starts the installer and reports the result.

Run it from the folder you extracted the Overcast installer package into.

Optional settings are read from overcast-launcher.jsonc in that folder and
from the OVERCAST_PYTHON, OVERCAST_LAUNCHER_PAUSE and
OVERCAST_LAUNCHER_VERBOSE environment variables.`,

		Args: cobra.NoArgs,

		// Errors are reported by the launcher itself or by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}

			code, err := runLaunch(cmd.Context(), host{
				dir:    dir,
				getenv: os.Getenv,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
			})
			if code != int(model.ExitSuccess) {
				return &exitError{code: code, err: err}
			}
			return nil
		},
	}

	return rootCmd
}

// Execute runs the root command and exits with the launcher's code.
//
// Exit code mapping:
//   - nil error: the installer succeeded, exit 0 (normal return)
//   - *exitError: already reported by the launcher; exit with its code,
//     which after a handoff is the installer's own code
//   - anything else (e.g. unexpected arguments): print it, exit 1
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(int(model.ExitGeneralError))
}

// runLaunch loads configuration and runs the launcher against h. The
// returned code is the process exit code; the error, if any, has
// already been reported on h.stdout.
func runLaunch(ctx context.Context, h host) (int, error) {
	// Step 1: Load configuration. A broken config file is reported in
	// the same boxed format as a failed check, before any check runs.
	cfg, err := config.Load(h.dir, h.getenv)
	if err != nil {
		rep := launcher.NewReporter(h.stdout, h.stdin, fallbackPause(h.getenv, h.stdin))
		le := model.WrapLaunchError(model.KindGeneral, "invalid launcher configuration", err)
		le.Remedies = []string{fmt.Sprintf("Fix or remove %s in %s", config.FileName, h.dir)}
		rep.Failure(le)
		rep.Pause()
		return int(le.Code), le
	}

	// Step 2: Build the host-facing collaborators. Diagnostics go to
	// stderr; the user-facing report stays on stdout.
	log := observability.NewLogger(h.stderr, appName, cfg.Verbose)

	table, err := platform.DefaultTable()
	if err != nil {
		return int(model.ExitGeneralError), err
	}

	plat := platform.Detect()
	log.Debug().Str("os", plat.OS).Str("id", plat.ID).Strs("idLike", plat.IDLike).Msg("platform detected")

	spawner := h.spawner
	if spawner == nil {
		spawner = &handoff.ExecSpawner{Stdin: h.stdin, Stdout: h.stdout, Stderr: h.stderr}
	}

	var prober docker.Prober
	if cfg.CheckDocker {
		prober = docker.DaemonProber{}
	}

	// Step 3: Run the checks and the handoff.
	l := launcher.New(launcher.Options{
		Dir:      h.dir,
		Config:   cfg,
		Platform: plat,
		Remedies: table,
		Finder:   python.NewFinder(python.ExecRunner{}, cfg.Interpreters, cfg.MinVersion, log),
		Spawner:  spawner,
		Prober:   prober,
		Reporter: launcher.NewReporter(h.stdout, h.stdin, shouldPause(cfg.Pause, h.stdin)),
		Log:      log,
	})
	return l.Run(ctx)
}

// shouldPause resolves the configured pause mode for stdin.
func shouldPause(mode config.PauseMode, stdin io.Reader) bool {
	switch mode {
	case config.PauseNever:
		return false
	case config.PauseAuto:
		return isInteractive(stdin)
	default:
		return true
	}
}

// fallbackPause decides the pause when the configuration could not be
// loaded. A valid OVERCAST_LAUNCHER_PAUSE still applies; otherwise the
// launcher pauses only on a terminal, since the file's setting is unknown.
func fallbackPause(getenv func(string) string, stdin io.Reader) bool {
	if getenv != nil {
		if mode, err := config.ParsePauseMode(getenv(config.EnvPause)); err == nil {
			return shouldPause(mode, stdin)
		}
	}
	return isInteractive(stdin)
}

// isInteractive reports whether r is a terminal, including the Cygwin
// and MSYS pseudo-terminals Git Bash uses on Windows.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
