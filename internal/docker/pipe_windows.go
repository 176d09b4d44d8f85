//go:build windows

package docker

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// dialPipe connects to a Windows named pipe. The net package has no
// "pipe" network, so go-winio (the transport the Docker SDK itself uses
// for npipe:// hosts) does the dialing.
var dialPipe = func(name string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(name, &timeout)
}
