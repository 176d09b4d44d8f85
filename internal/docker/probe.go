package docker

import (
	"context"
	"time"
)

// Prober checks whether a container daemon is usable.
type Prober interface {
	Probe(ctx context.Context) (apiVersion string, err error)
}

// DaemonProber probes the local Docker daemon.
type DaemonProber struct {
	// Timeout bounds the ping; zero means DefaultProbeTimeout.
	Timeout time.Duration
}

// Probe implements Prober.
func (p DaemonProber) Probe(ctx context.Context) (string, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	c, err := NewClient()
	if err != nil {
		return "", err
	}
	defer func() { _ = c.Close() }()

	return c.Ping(ctx, timeout)
}
