package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/overcast-launcher/internal/config"
	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// countingSpawner records handoffs instead of starting processes.
type countingSpawner struct {
	calls int
}

func (s *countingSpawner) Spawn(context.Context, []string, string) (int, error) {
	s.calls++
	return 0, nil
}

func testHost(t *testing.T, dir string, env map[string]string) (host, *bytes.Buffer, *countingSpawner) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	spawner := &countingSpawner{}
	return host{
		dir:     dir,
		getenv:  func(k string) string { return env[k] },
		stdin:   strings.NewReader("\n"),
		stdout:  &stdout,
		stderr:  &stderr,
		spawner: spawner,
	}, &stdout, spawner
}

// TestRootCommand_RejectsArgs verifies the zero-argument contract.
func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"install"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)

	var ee *exitError
	assert.False(t, errors.As(err, &ee), "argument errors are not launcher results")
}

func TestRootCommand_Version(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "commit:")
}

// TestRunLaunch_NoInterpreter runs the real pipeline with an interpreter
// override that cannot exist, which must end in EnvironmentMissing
// without a handoff.
func TestRunLaunch_NoInterpreter(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{config.DefaultEntryScript, config.DefaultAgentTemplate} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("# stub\n"), 0644))
	}

	h, stdout, spawner := testHost(t, dir, map[string]string{
		config.EnvPython: filepath.Join(dir, "no-such-python3"),
		config.EnvPause:  "never",
	})

	code, err := runLaunch(context.Background(), h)

	assert.Equal(t, int(model.ExitEnvironmentMissing), code)
	var le *model.LaunchError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, model.KindEnvironmentMissing, le.Kind)
	assert.Zero(t, spawner.calls)
	assert.Contains(t, stdout.String(), "ERROR: Python 3.9 or newer was not found")
	assert.NotContains(t, stdout.String(), "Press Enter")
}

// TestRunLaunch_InvalidConfig verifies that a broken config file is
// reported as a general error before any check runs.
func TestRunLaunch_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"pause": "sometimes"}`), 0644))

	h, stdout, spawner := testHost(t, dir, nil)

	code, err := runLaunch(context.Background(), h)

	assert.Equal(t, int(model.ExitGeneralError), code)
	require.Error(t, err)
	assert.Zero(t, spawner.calls)
	assert.Contains(t, stdout.String(), "ERROR: invalid launcher configuration")
	assert.Contains(t, stdout.String(), config.FileName)
}

// TestRunLaunch_InvalidConfigHonoursPauseEnv verifies that the pause
// requested through the environment still happens when the config file
// is broken.
func TestRunLaunch_InvalidConfigHonoursPauseEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"pause": `), 0644))

	h, stdout, _ := testHost(t, dir, map[string]string{config.EnvPause: "always"})

	code, err := runLaunch(context.Background(), h)

	assert.Equal(t, int(model.ExitGeneralError), code)
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Press Enter to exit...")
}

func TestFallbackPause(t *testing.T) {
	in := strings.NewReader("")
	env := func(v string) func(string) string {
		return func(string) string { return v }
	}

	assert.True(t, fallbackPause(env("always"), in))
	assert.False(t, fallbackPause(env("never"), in))
	assert.False(t, fallbackPause(env("auto"), in))
	assert.False(t, fallbackPause(env(""), in), "unset falls back to the terminal check")
	assert.False(t, fallbackPause(env("sometimes"), in))
	assert.False(t, fallbackPause(nil, in))
}

// TestShouldPause covers the three pause modes. A bytes.Reader is never
// a terminal, so auto resolves to false.
func TestShouldPause(t *testing.T) {
	in := strings.NewReader("")
	assert.True(t, shouldPause(config.PauseAlways, in))
	assert.False(t, shouldPause(config.PauseNever, in))
	assert.False(t, shouldPause(config.PauseAuto, in))
}

func TestExitError(t *testing.T) {
	inner := errors.New("installation failed")
	ee := &exitError{code: 7, err: inner}
	assert.Equal(t, "installation failed", ee.Error())
	assert.True(t, errors.Is(ee, inner))
	assert.Equal(t, "exit code 3", (&exitError{code: 3}).Error())
}
