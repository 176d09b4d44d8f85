package docker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"
)

// DefaultProbeTimeout bounds a single probe. The launcher should not
// stall noticeably on a host without Docker.
const DefaultProbeTimeout = 2 * time.Second

// ErrNoSocket is returned when no Docker endpoint could be located.
var ErrNoSocket = errors.New("Docker socket not found")

// Client wraps the Docker Engine SDK client.
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client with automatic socket detection.
//
// The detection strategy follows this priority order:
//  1. DOCKER_HOST environment variable (if set, used as-is)
//  2. Platform-specific default locations:
//     - Linux: /var/run/docker.sock, then ~/.docker/desktop/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine
//
// Errors wrap ErrNoSocket when nothing could be located.
func NewClient() (*Client, error) {
	// Step 1: An explicit DOCKER_HOST is respected unconditionally; the
	// SDK parses the connection string.
	host := os.Getenv("DOCKER_HOST")

	// Step 2: Otherwise look for the platform's default endpoint.
	if host == "" {
		detected, err := detectDockerHost(runtime.GOOS)
		if err != nil {
			return nil, err
		}
		host = detected
	}

	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client for host %q: %w", host, err)
	}
	return &Client{inner: c}, nil
}

// Windows Docker Desktop listens on a fixed named pipe. pipeName is the
// Win32 form go-winio dials; pipeHost is the same pipe as a Docker host URI.
const (
	pipeName = `\\.\pipe\docker_engine`
	pipeHost = "npipe:////./pipe/docker_engine"
)

// detectDockerHost returns the Docker host URI for goos.
//
// Design note: Unix sockets are detected by file existence and never
// dialed, because Ping() does the connectivity check. Named pipes cannot
// be stat'ed, so on Windows a short dial is the existence check.
func detectDockerHost(goos string) (string, error) {
	switch goos {
	case "windows":
		conn, err := dialPipe(pipeName, time.Second)
		if err != nil {
			return "", fmt.Errorf("%w: named pipe %s: %v", ErrNoSocket, pipeName, err)
		}
		conn.Close()
		return pipeHost, nil

	default:
		return detectUnixSocket(unixSocketPaths(goos))
	}
}

// unixSocketPaths lists candidate sockets, most preferred first.
// Newer Docker Desktop releases on macOS may only create the per-user
// socket under ~/.docker/run.
func unixSocketPaths(goos string) []string {
	paths := []string{"/var/run/docker.sock"}
	if home, err := os.UserHomeDir(); err == nil {
		if goos == "darwin" {
			paths = append(paths, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		if goos == "linux" {
			paths = append(paths, filepath.Join(home, ".docker", "desktop", "docker.sock"))
		}
	}
	return paths
}

// detectUnixSocket returns the URI of the first existing path.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("%w at any of: %v", ErrNoSocket, paths)
}

// Ping verifies that the daemon answers within timeout and returns the
// API version it negotiated.
func (c *Client) Ping(ctx context.Context, timeout time.Duration) (string, error) {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ping, err := c.inner.Ping(pingCtx)
	if err != nil {
		return "", fmt.Errorf("Docker daemon is not responding: %w", err)
	}
	return ping.APIVersion, nil
}

// Close releases the client's resources. Safe to call multiple times.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}
