package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shinji-kodama/overcast-launcher/internal/config"
	"github.com/shinji-kodama/overcast-launcher/internal/docker"
	"github.com/shinji-kodama/overcast-launcher/internal/handoff"
	"github.com/shinji-kodama/overcast-launcher/internal/model"
	"github.com/shinji-kodama/overcast-launcher/internal/platform"
	"github.com/shinji-kodama/overcast-launcher/internal/preflight"
	"github.com/shinji-kodama/overcast-launcher/internal/python"
)

// InterpreterFinder locates the runtime and probes it for modules.
// *python.Finder is the production implementation.
type InterpreterFinder interface {
	Find(ctx context.Context) (*model.Interpreter, error)
	CheckModule(ctx context.Context, interp *model.Interpreter, module string) error
}

// Options wires a Launcher. Dir, Config, Finder, Spawner and Reporter are
// required; Prober may be nil to skip the Docker check.
type Options struct {
	Dir      string
	Config   *config.Config
	Platform model.Platform
	Remedies platform.Table
	Finder   InterpreterFinder
	Spawner  handoff.Spawner
	Prober   docker.Prober
	Reporter *Reporter
	Log      zerolog.Logger
}

// Launcher runs the preflight checks and hands off to the installer.
type Launcher struct {
	opts Options
}

// New creates a Launcher.
func New(opts Options) *Launcher {
	return &Launcher{opts: opts}
}

// Run executes the pipeline:
//
//	interpreter -> toolkit -> required files -> (docker note) -> handoff -> report
//
// Each check fails closed and short-circuits the rest. Every terminal
// path is reported and followed by the acknowledgment pause. The
// returned code is the process exit code: 0 on success, the kind's code
// for a failed check, or the installer's own exit code after handoff.
// The error is the reported *model.LaunchError, or nil on success.
func (l *Launcher) Run(ctx context.Context) (int, error) {
	rep := l.opts.Reporter
	rep.Header(l.opts.Platform)

	err := l.run(ctx)
	if err == nil {
		rep.Success()
		rep.Pause()
		return int(model.ExitSuccess), nil
	}

	var le *model.LaunchError
	if !errors.As(err, &le) {
		le = model.WrapLaunchError(model.KindGeneral, "unexpected launcher error", err)
	}
	l.opts.Log.Debug().Str("kind", le.Kind.String()).Int("code", int(le.Code)).Err(le).Msg("launcher finished with error")

	rep.Failure(le)
	rep.Pause()
	return int(le.Code), le
}

func (l *Launcher) run(ctx context.Context) error {
	cfg := l.opts.Config
	rep := l.opts.Reporter

	// Step 1: Find an interpreter that satisfies the minimum version.
	// Candidates are tried in configured order; the first match wins.
	interp, err := l.opts.Finder.Find(ctx)
	if err != nil {
		return l.environmentMissing(err)
	}
	rep.Check("Python:", fmt.Sprintf("%s (%s)", interp.Version, interp.Name()))

	// Step 2: Verify the GUI toolkit imports in that same interpreter.
	// A Python without Tk would start the installer and crash on its
	// first window, so this is checked on every platform.
	if err := l.opts.Finder.CheckModule(ctx, interp, cfg.ToolkitModule); err != nil {
		return l.dependencyMissing(interp, err)
	}
	rep.Check("GUI toolkit:", cfg.ToolkitModule)

	// Step 3: Verify the installer files are in the working directory.
	if err := preflight.CheckRequiredFiles(l.opts.Dir, cfg.RequiredFiles); err != nil {
		return err
	}
	rep.Check("Installer files:", fmt.Sprintf("%d found", len(cfg.RequiredFiles)))

	// Step 4: Probe the Docker daemon. This is advisory only and never
	// fails the run.
	//
	// Design note: The probe runs after the file check so that a real
	// failure is always reported first, and a slow or missing daemon can
	// only add a note in front of an installer that is about to start.
	l.probeDocker(ctx)

	// Step 5: Hand off to the installer and wait for it. The child shares
	// the console, so its output and Ctrl-C behave as if run directly.
	argv := interp.Argv(cfg.EntryScript)
	rep.Starting(argv)
	l.opts.Log.Debug().Strs("argv", argv).Str("dir", l.opts.Dir).Msg("starting installer")

	code, err := l.opts.Spawner.Spawn(ctx, argv, l.opts.Dir)
	if err != nil {
		le := model.ChildFailed(-1, l.childRemedies(interp)...)
		le.Message = "could not start the installer"
		le.Err = err
		return le
	}
	l.opts.Log.Debug().Int("exitCode", code).Msg("installer exited")

	// Step 6: Report the result. A nonzero code is mirrored as the
	// launcher's own exit code (see model.MirrorExitCode).
	if code != 0 {
		return model.ChildFailed(code, l.childRemedies(interp)...)
	}
	return nil
}

func (l *Launcher) environmentMissing(err error) *model.LaunchError {
	cfg := l.opts.Config
	vars := platform.Vars{MinVersion: cfg.MinVersion}

	le := model.NewLaunchError(model.KindEnvironmentMissing,
		fmt.Sprintf("Python %d.%d or newer is required but was not found", cfg.MinVersion.Major, cfg.MinVersion.Minor))

	var nf *python.NotFoundError
	if errors.As(err, &nf) {
		le.Message = nf.Error()
		for _, a := range nf.Attempts {
			l.opts.Log.Debug().Strs("command", a.Command).Err(a.Err).Msg("candidate rejected")
		}
	} else {
		le.Err = err
	}
	le.Remedies = l.opts.Remedies.Lookup(platform.ProblemPython, l.opts.Platform, vars)
	return le
}

func (l *Launcher) dependencyMissing(interp *model.Interpreter, err error) *model.LaunchError {
	cfg := l.opts.Config
	le := model.WrapLaunchError(model.KindDependencyMissing,
		fmt.Sprintf("%s is not available in %s (Python %s)", cfg.ToolkitModule, interp.Name(), interp.Version),
		err)
	le.Remedies = l.opts.Remedies.Lookup(platform.ProblemToolkit, l.opts.Platform,
		platform.Vars{MinVersion: cfg.MinVersion, Python: interp.Name()})
	return le
}

// childRemedies is the fixed list shown after a failed installer run.
func (l *Launcher) childRemedies(interp *model.Interpreter) []string {
	cfg := l.opts.Config
	return []string{
		fmt.Sprintf("Make sure Python %d.%d or newer is installed", cfg.MinVersion.Major, cfg.MinVersion.Minor),
		fmt.Sprintf("Make sure %s is installed for your Python", cfg.ToolkitModule),
		fmt.Sprintf("Try running it directly: %s %s", interp.Name(), cfg.EntryScript),
		"Check that you can read and write files in this directory",
	}
}

func (l *Launcher) probeDocker(ctx context.Context) {
	if l.opts.Prober == nil || !l.opts.Config.CheckDocker {
		return
	}

	apiVersion, err := l.opts.Prober.Probe(ctx)
	if err != nil {
		l.opts.Log.Debug().Err(err).Msg("docker probe failed")
		l.opts.Reporter.Note("Docker is not reachable; you will need it to build the agent image later")
		return
	}
	l.opts.Log.Debug().Str("apiVersion", apiVersion).Msg("docker daemon reachable")
	l.opts.Reporter.Check("Docker:", "daemon reachable")
}
