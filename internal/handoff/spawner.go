package handoff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Spawner runs a child process to completion.
type Spawner interface {
	// Spawn runs argv in dir, blocks until it exits, and returns its exit
	// code. A child terminated by a signal reports -1. The error is set
	// only when the process could not be started or waited on.
	Spawn(ctx context.Context, argv []string, dir string) (int, error)
}

// ExecSpawner runs children with os/exec. The launcher passes its own
// stdin, stdout and stderr so the child shares the console. Nil streams
// are connected to the null device.
type ExecSpawner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the child environment. Nil inherits the launcher's.
	Env []string
}

// Spawn implements Spawner. No timeout is applied; the child runs for as
// long as the user keeps the installer open.
func (s *ExecSpawner) Spawn(ctx context.Context, argv []string, dir string) (int, error) {
	if len(argv) == 0 {
		return -1, errors.New("empty command")
	}

	// #nosec G204 -- argv is the resolved interpreter plus a fixed script name
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = s.Env
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed waiting for %s: %w", argv[0], err)
}
