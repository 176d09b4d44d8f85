package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// FileName is the optional per-directory configuration file.
const FileName = "overcast-launcher.jsonc"

// Default values for the Overcast installer package.
const (
	DefaultEntryScript   = "overcast_installer.py"
	DefaultAgentTemplate = "overcast_agent_template.py"
	DefaultToolkitModule = "tkinter"
)

// Environment variables applied after the configuration file.
const (
	EnvPython  = "OVERCAST_PYTHON"
	EnvPause   = "OVERCAST_LAUNCHER_PAUSE"
	EnvVerbose = "OVERCAST_LAUNCHER_VERBOSE"
)

// PauseMode controls whether the launcher waits for Enter before exiting.
type PauseMode string

const (
	// PauseAlways waits on every terminal path.
	PauseAlways PauseMode = "always"

	// PauseNever returns immediately; useful in CI.
	PauseNever PauseMode = "never"

	// PauseAuto waits only when stdin is an interactive terminal.
	PauseAuto PauseMode = "auto"
)

// ParsePauseMode converts a string to a PauseMode.
func ParsePauseMode(s string) (PauseMode, error) {
	mode := PauseMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case PauseAlways, PauseNever, PauseAuto:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid pause mode: %q (valid: always, never, auto)", s)
	}
}

// Config is the resolved launcher configuration.
type Config struct {
	// MinVersion is the lowest acceptable Python version.
	MinVersion model.Version

	// Interpreters lists candidate commands in order of preference.
	// Each entry is an argv prefix, e.g. ["py", "-3"].
	Interpreters [][]string

	// ToolkitModule is the module imported to verify GUI support.
	ToolkitModule string

	// EntryScript is the installer script passed to the interpreter.
	EntryScript string

	// RequiredFiles must all exist in the working directory. The entry
	// script is always first.
	RequiredFiles []string

	// Pause controls the acknowledgment prompt.
	Pause PauseMode

	// Verbose enables debug logging on stderr.
	Verbose bool

	// CheckDocker enables the advisory Docker daemon probe.
	CheckDocker bool
}

// fileConfig mirrors the JSON layout of FileName. Pointer fields
// distinguish "absent" from the zero value.
type fileConfig struct {
	MinPythonVersion string            `json:"minPythonVersion,omitempty"`
	Interpreters     []json.RawMessage `json:"interpreters,omitempty"`
	ToolkitModule    string            `json:"toolkitModule,omitempty"`
	EntryScript      string            `json:"entryScript,omitempty"`
	RequiredFiles    []string          `json:"requiredFiles,omitempty"`
	Pause            string            `json:"pause,omitempty"`
	Verbose          *bool             `json:"verbose,omitempty"`
	CheckDocker      *bool             `json:"checkDocker,omitempty"`
}

// DefaultInterpreters returns the candidate commands for goos. The
// version-qualified name is always tried before the bare one.
func DefaultInterpreters(goos string) [][]string {
	if goos == "windows" {
		return [][]string{{"py", "-3"}, {"python3"}, {"python"}}
	}
	return [][]string{{"python3"}, {"python"}}
}

// Default returns the built-in configuration for the current platform.
func Default() *Config {
	return &Config{
		MinVersion:    model.Version{Major: 3, Minor: 9},
		Interpreters:  DefaultInterpreters(runtime.GOOS),
		ToolkitModule: DefaultToolkitModule,
		EntryScript:   DefaultEntryScript,
		RequiredFiles: []string{DefaultEntryScript, DefaultAgentTemplate},
		Pause:         PauseAlways,
		CheckDocker:   true,
	}
}

// Load builds the configuration for dir: defaults, then FileName in dir
// if present, then environment variables read through getenv.
func Load(dir string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.applyFile(data); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// The file is optional.
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile merges JSONC data over the current values.
func (c *Config) applyFile(data []byte) error {
	var fc fileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
		return err
	}

	if fc.MinPythonVersion != "" {
		v, err := model.ParseVersion(fc.MinPythonVersion)
		if err != nil {
			return fmt.Errorf("minPythonVersion: %w", err)
		}
		c.MinVersion = v
	}
	if len(fc.Interpreters) > 0 {
		cmds, err := splitCommands(fc.Interpreters)
		if err != nil {
			return fmt.Errorf("interpreters: %w", err)
		}
		c.Interpreters = cmds
	}
	if fc.ToolkitModule != "" {
		c.ToolkitModule = fc.ToolkitModule
	}
	if fc.EntryScript != "" {
		c.EntryScript = fc.EntryScript
		c.RequiredFiles = withEntryScript(c.EntryScript, c.RequiredFiles[1:])
	}
	if len(fc.RequiredFiles) > 0 {
		c.RequiredFiles = withEntryScript(c.EntryScript, fc.RequiredFiles)
	}
	if fc.Pause != "" {
		mode, err := ParsePauseMode(fc.Pause)
		if err != nil {
			return err
		}
		c.Pause = mode
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	if fc.CheckDocker != nil {
		c.CheckDocker = *fc.CheckDocker
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	// OVERCAST_PYTHON names one executable and is never split, so a
	// path such as C:\Program Files\Python311\python.exe stays intact.
	if py := strings.TrimSpace(getenv(EnvPython)); py != "" {
		c.Interpreters = [][]string{{py}}
	}
	if p := getenv(EnvPause); p != "" {
		mode, err := ParsePauseMode(p)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPause, err)
		}
		c.Pause = mode
	}
	if v := getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvVerbose, v)
		}
		c.Verbose = b
	}
	return nil
}

// splitCommands converts the "interpreters" entries to argv prefixes.
// An entry is either a command string, split by splitCommand, or an
// array of strings used verbatim.
func splitCommands(entries []json.RawMessage) ([][]string, error) {
	cmds := make([][]string, 0, len(entries))
	for i, raw := range entries {
		var argv []string

		var line string
		if err := json.Unmarshal(raw, &line); err == nil {
			if argv, err = splitCommand(line); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		} else if err := json.Unmarshal(raw, &argv); err != nil {
			return nil, fmt.Errorf("entry %d: must be a string or an array of strings", i)
		}

		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			return nil, fmt.Errorf("entry %d: empty interpreter command", i)
		}
		cmds = append(cmds, argv)
	}
	return cmds, nil
}

// splitCommand splits s on whitespace outside double quotes. Backslashes
// are literal, so Windows paths need no escaping beyond quoting:
//
//	"C:\Program Files\Python311\python.exe" -X utf8
func splitCommand(s string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inField bool
		quoted  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inField = true
		case unicode.IsSpace(r) && !quoted:
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

// withEntryScript returns files with entry placed first and removed from
// any later position, so the entry script is always checked before the rest.
func withEntryScript(entry string, files []string) []string {
	out := []string{entry}
	for _, f := range files {
		if f != entry && f != "" {
			out = append(out, f)
		}
	}
	return out
}
