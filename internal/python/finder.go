package python

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// versionQuery asks the runtime for its own version tuple as JSON.
//
// Design note: We do not parse "python --version". Python 2 prints its
// banner to stderr and Python 3 to stdout, distribution builds append
// suffixes such as "3.12.1+", and the Windows Store alias prints a store
// hint instead. sys.version_info is the one format every release agrees on.
const versionQuery = "import json, sys; print(json.dumps(list(sys.version_info[:3])))"

// moduleNameRegex limits importable module names to dotted identifiers.
// The name is interpolated into a -c snippet, so anything else is refused.
var moduleNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Runner abstracts process execution so discovery can be tested without
// a real Python installation.
type Runner interface {
	// LookPath resolves name on the search path.
	LookPath(name string) (string, error)

	// Output runs path with args and returns its stdout. A nonzero exit
	// is reported as an error that includes the trimmed stderr.
	Output(ctx context.Context, path string, args ...string) ([]byte, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// LookPath implements Runner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Output implements Runner.
func (ExecRunner) Output(ctx context.Context, path string, args ...string) ([]byte, error) {
	// #nosec G204 -- path comes from LookPath, args are built internally
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", path, err, lastLine(msg))
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []byte(stdout.String()), nil
}

// Attempt records what happened to one candidate during discovery.
type Attempt struct {
	// Command is the candidate argv prefix.
	Command []string

	// Path is the resolved executable, empty if not on the search path.
	Path string

	// Version is set when the runtime answered the version query.
	Version *model.Version

	// Err is why the candidate was rejected.
	Err error
}

// NotFoundError is returned by Find when no candidate qualifies.
type NotFoundError struct {
	// Min is the version that was required.
	Min model.Version

	// Attempts lists every candidate in the order it was tried.
	Attempts []Attempt
}

// Error satisfies the error interface.
func (e *NotFoundError) Error() string {
	if best := e.NewestTooOld(); best != nil {
		return fmt.Sprintf("Python %s found, but %d.%d or newer is required",
			best.Version, e.Min.Major, e.Min.Minor)
	}
	return fmt.Sprintf("Python %d.%d or newer was not found", e.Min.Major, e.Min.Minor)
}

// NewestTooOld returns the attempt with the highest version that was
// rejected as too old, or nil if no runtime answered at all.
func (e *NotFoundError) NewestTooOld() *Attempt {
	var best *Attempt
	for i := range e.Attempts {
		a := &e.Attempts[i]
		if a.Version == nil {
			continue
		}
		if best == nil || a.Version.Compare(*best.Version) > 0 {
			best = a
		}
	}
	return best
}

// errTooOld marks a candidate that ran but is below the minimum.
var errTooOld = errors.New("version below minimum")

// Finder locates a Python runtime and probes it for modules.
type Finder struct {
	runner     Runner
	candidates [][]string
	min        model.Version
	log        zerolog.Logger
}

// NewFinder creates a Finder trying candidates in order. Each candidate
// is an argv prefix such as ["python3"] or ["py", "-3"].
func NewFinder(runner Runner, candidates [][]string, min model.Version, log zerolog.Logger) *Finder {
	return &Finder{runner: runner, candidates: candidates, min: min, log: log}
}

// Find returns the first candidate that is on the search path and reports
// a version of at least the configured minimum. Candidates that are
// missing, broken or too old are skipped. If none qualifies, the error is
// a *NotFoundError describing every attempt.
func (f *Finder) Find(ctx context.Context) (*model.Interpreter, error) {
	notFound := &NotFoundError{Min: f.min}

	for _, candidate := range f.candidates {
		if len(candidate) == 0 {
			continue
		}
		attempt := f.try(ctx, candidate)
		notFound.Attempts = append(notFound.Attempts, attempt)

		event := f.log.Debug().Strs("command", candidate).Str("path", attempt.Path)
		if attempt.Version != nil {
			event = event.Str("version", attempt.Version.String())
		}
		if attempt.Err != nil {
			event.Err(attempt.Err).Msg("interpreter candidate rejected")
			continue
		}
		event.Msg("interpreter selected")

		return &model.Interpreter{
			Command: append([]string(nil), candidate...),
			Path:    attempt.Path,
			Version: *attempt.Version,
		}, nil
	}
	return nil, notFound
}

func (f *Finder) try(ctx context.Context, candidate []string) Attempt {
	attempt := Attempt{Command: candidate}

	path, err := f.runner.LookPath(candidate[0])
	if err != nil {
		attempt.Err = err
		return attempt
	}
	attempt.Path = path

	v, err := f.queryVersion(ctx, path, candidate[1:])
	if err != nil {
		attempt.Err = err
		return attempt
	}
	attempt.Version = &v

	if !v.AtLeast(f.min) {
		attempt.Err = fmt.Errorf("%w: %s < %d.%d", errTooOld, v, f.min.Major, f.min.Minor)
	}
	return attempt
}

// queryVersion runs the version snippet and decodes its JSON answer.
func (f *Finder) queryVersion(ctx context.Context, path string, prefix []string) (model.Version, error) {
	args := append(append([]string(nil), prefix...), "-c", versionQuery)
	out, err := f.runner.Output(ctx, path, args...)
	if err != nil {
		return model.Version{}, fmt.Errorf("version query failed: %w", err)
	}

	var parts []int
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &parts); err != nil {
		return model.Version{}, fmt.Errorf("unexpected version query output %q: %w", strings.TrimSpace(string(out)), err)
	}
	if len(parts) != 3 {
		return model.Version{}, fmt.Errorf("unexpected version query output %v: want 3 components", parts)
	}
	return model.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// CheckModule verifies that interp can import module. A failed import is
// returned as an error carrying the interpreter's last stderr line
// (normally the ImportError / ModuleNotFoundError message).
func (f *Finder) CheckModule(ctx context.Context, interp *model.Interpreter, module string) error {
	if !moduleNameRegex.MatchString(module) {
		return fmt.Errorf("invalid module name %q", module)
	}

	path := interp.Path
	if path == "" {
		path = interp.Command[0]
	}
	args := append(append([]string(nil), interp.Command[1:]...), "-c", "import "+module)

	if _, err := f.runner.Output(ctx, path, args...); err != nil {
		f.log.Debug().Str("module", module).Err(err).Msg("module import failed")
		return fmt.Errorf("cannot import %s: %w", module, err)
	}
	f.log.Debug().Str("module", module).Msg("module import succeeded")
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
