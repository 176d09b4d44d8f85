//go:build !windows

package docker

import (
	"errors"
	"net"
	"time"
)

// dialPipe always fails outside Windows; named pipes do not exist there.
var dialPipe = func(name string, timeout time.Duration) (net.Conn, error) {
	return nil, errors.New("named pipes are only available on Windows")
}
