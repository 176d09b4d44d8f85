// Package model defines the domain types for the overcast-launcher CLI.
//
// Every value here lives only for the duration of a single launcher run:
// the resolved interpreter, its version, the detected host platform, and
// the typed error that decides the process exit code.
package model

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Version is a Python release triple as reported by sys.version_info.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String returns the dotted form, e.g. "3.11.4".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 when v is lower than, equal to, or higher
// than other. Components are compared left to right.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v satisfies the minimum version min.
func (v Version) AtLeast(min Version) bool {
	return v.Compare(min) >= 0
}

// ParseVersion converts "3", "3.9" or "3.9.1" into a Version.
// Missing components default to zero. This is only used for
// configuration values; interpreter versions are obtained as
// structured data and never parsed from text.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("version must not be empty")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: at most three components allowed", s)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, part)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Interpreter is a Python runtime resolved on the search path.
type Interpreter struct {
	// Command is the argv prefix used to invoke the runtime, e.g.
	// ["python3"] or ["py", "-3"] for the Windows launcher.
	Command []string `json:"command"`

	// Path is the absolute path of Command[0] as resolved by exec.LookPath.
	Path string `json:"path"`

	// Version is the runtime's own report of sys.version_info.
	Version Version `json:"version"`
}

// Name returns the command as the user would type it.
func (i Interpreter) Name() string {
	return strings.Join(i.Command, " ")
}

// Argv returns the full argument vector for running script with this
// interpreter. The first element is the resolved executable path.
func (i Interpreter) Argv(script string) []string {
	argv := make([]string, 0, len(i.Command)+1)
	if i.Path != "" {
		argv = append(argv, i.Path)
	} else {
		argv = append(argv, i.Command[0])
	}
	argv = append(argv, i.Command[1:]...)
	return append(argv, script)
}

// Platform describes the host operating system. On Linux the
// distribution fields come from os-release; elsewhere they are empty.
type Platform struct {
	// OS is runtime.GOOS ("linux", "darwin", "windows", ...).
	OS string `json:"os"`

	// ID is the os-release ID field, lowercased (e.g. "ubuntu").
	ID string `json:"id,omitempty"`

	// IDLike lists the os-release ID_LIKE entries in order of preference.
	IDLike []string `json:"idLike,omitempty"`

	// PrettyName is the human-readable distribution name.
	PrettyName string `json:"prettyName,omitempty"`
}

// Keys returns the remediation lookup keys for this platform, most
// specific first: distribution ID, each ID_LIKE entry, then the OS name.
// Duplicates and empty values are dropped.
func (p Platform) Keys() []string {
	candidates := make([]string, 0, len(p.IDLike)+2)
	candidates = append(candidates, p.ID)
	candidates = append(candidates, p.IDLike...)
	candidates = append(candidates, p.OS)

	seen := make(map[string]bool, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, k := range candidates {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// String returns the pretty name if known, otherwise the OS name.
func (p Platform) String() string {
	if p.PrettyName != "" {
		return p.PrettyName
	}
	return p.OS
}

// ErrorKind classifies a launcher failure.
type ErrorKind string

const (
	// KindEnvironmentMissing means no Python runtime of the required
	// version was found on the search path.
	KindEnvironmentMissing ErrorKind = "EnvironmentMissing"

	// KindDependencyMissing means the GUI toolkit module cannot be
	// imported by the resolved interpreter.
	KindDependencyMissing ErrorKind = "DependencyMissing"

	// KindFileNotFound means a required installer file is absent from
	// the working directory.
	KindFileNotFound ErrorKind = "FileNotFound"

	// KindChildProcessFailed means the installer ran and exited nonzero,
	// or could not be started at all.
	KindChildProcessFailed ErrorKind = "ChildProcessFailed"

	// KindGeneral covers everything else (bad configuration, unreadable
	// working directory).
	KindGeneral ErrorKind = "General"
)

// String returns the kind name.
func (k ErrorKind) String() string {
	return string(k)
}

// ExitCode defines the launcher's process exit codes. After a handoff
// the launcher exits with the child's own code instead.
type ExitCode int

const (
	// ExitSuccess indicates the installer ran and exited cleanly.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitEnvironmentMissing indicates no suitable interpreter was found.
	ExitEnvironmentMissing ExitCode = 2

	// ExitDependencyMissing indicates the GUI toolkit is not importable.
	ExitDependencyMissing ExitCode = 3

	// ExitFileNotFound indicates a required file is missing.
	ExitFileNotFound ExitCode = 4
)

// LaunchError is a terminal launcher failure. It carries everything the
// CLI layer needs to report it: a headline, advisory remediation lines
// and the exit code to return to the OS.
type LaunchError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the one-line headline shown in the error box.
	Message string

	// Remedies are the advisory steps printed below the box.
	Remedies []string

	// File names the missing file for KindFileNotFound.
	File string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *LaunchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// NewLaunchError creates a LaunchError with the exit code implied by kind.
func NewLaunchError(kind ErrorKind, message string, remedies ...string) *LaunchError {
	return &LaunchError{Kind: kind, Code: kind.exitCode(), Message: message, Remedies: remedies}
}

// WrapLaunchError creates a LaunchError of kind that wraps err.
func WrapLaunchError(kind ErrorKind, message string, err error) *LaunchError {
	return &LaunchError{Kind: kind, Code: kind.exitCode(), Message: message, Err: err}
}

// ChildFailed builds the ChildProcessFailed error for a child that
// exited with code. The launcher exits with the same code; see
// MirrorExitCode for the codes that cannot be passed through.
func ChildFailed(code int, remedies ...string) *LaunchError {
	return &LaunchError{
		Kind:     KindChildProcessFailed,
		Code:     MirrorExitCode(code, runtime.GOOS),
		Message:  fmt.Sprintf("installation failed (exit code %d)", code),
		Remedies: remedies,
	}
}

// MirrorExitCode maps a child's exit code to the launcher's own exit
// code on goos.
//
// Design note: POSIX exit statuses are 8 bits wide, so a code outside
// 1..255 would be truncated (256 would read as success) and collapses to
// ExitGeneralError instead. Windows exit codes are 32-bit and pass
// through unchanged. A negative code means the child never exited on
// its own (not started, or killed by a signal) and is always
// ExitGeneralError.
func MirrorExitCode(code int, goos string) ExitCode {
	switch {
	case code <= 0:
		return ExitGeneralError
	case goos == "windows":
		return ExitCode(code)
	case code > 255:
		return ExitGeneralError
	default:
		return ExitCode(code)
	}
}

func (k ErrorKind) exitCode() ExitCode {
	switch k {
	case KindEnvironmentMissing:
		return ExitEnvironmentMissing
	case KindDependencyMissing:
		return ExitDependencyMissing
	case KindFileNotFound:
		return ExitFileNotFound
	default:
		return ExitGeneralError
	}
}
