package docker

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetectUnixSocket verifies that the first existing path wins.
func TestDetectUnixSocket(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.sock")
	third := filepath.Join(dir, "third.sock")
	require.NoError(t, os.WriteFile(second, nil, 0600))
	require.NoError(t, os.WriteFile(third, nil, 0600))

	host, err := detectUnixSocket([]string{filepath.Join(dir, "first.sock"), second, third})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+second, host)
}

func TestDetectUnixSocket_NoneFound(t *testing.T) {
	_, err := detectUnixSocket([]string{filepath.Join(t.TempDir(), "docker.sock")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSocket))
}

// TestUnixSocketPaths verifies that the system socket is always preferred.
func TestUnixSocketPaths(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		t.Run(goos, func(t *testing.T) {
			paths := unixSocketPaths(goos)
			require.NotEmpty(t, paths)
			assert.Equal(t, "/var/run/docker.sock", paths[0])
		})
	}
}

// stubDialPipe replaces the named-pipe dialer for the duration of t.
func stubDialPipe(t *testing.T, dial func(string, time.Duration) (net.Conn, error)) {
	t.Helper()
	orig := dialPipe
	dialPipe = dial
	t.Cleanup(func() { dialPipe = orig })
}

// TestDetectDockerHost_WindowsPipe verifies that a reachable named pipe
// yields the npipe:// host the SDK expects.
func TestDetectDockerHost_WindowsPipe(t *testing.T) {
	var dialed string
	stubDialPipe(t, func(name string, _ time.Duration) (net.Conn, error) {
		dialed = name
		server, client := net.Pipe()
		server.Close()
		return client, nil
	})

	host, err := detectDockerHost("windows")
	require.NoError(t, err)
	assert.Equal(t, "npipe:////./pipe/docker_engine", host)
	assert.Equal(t, `\\.\pipe\docker_engine`, dialed)
}

func TestDetectDockerHost_WindowsPipeMissing(t *testing.T) {
	stubDialPipe(t, func(string, time.Duration) (net.Conn, error) {
		return nil, errors.New("The system cannot find the file specified.")
	})

	_, err := detectDockerHost("windows")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSocket))
	assert.Contains(t, err.Error(), "cannot find the file")
}

// TestDaemonProber_Unreachable points DOCKER_HOST at a socket nobody
// listens on and checks that the probe fails within its timeout.
func TestDaemonProber_Unreachable(t *testing.T) {
	t.Setenv("DOCKER_HOST", "unix://"+filepath.Join(t.TempDir(), "nobody.sock"))

	start := time.Now()
	_, err := DaemonProber{Timeout: 500 * time.Millisecond}.Probe(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
