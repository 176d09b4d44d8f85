// Package main is the entry point for the overcast-launcher CLI.
//
// The binary validates that Python and Tkinter are available and that
// the installer files are present, then runs the Overcast installer. All
// functionality lives in the internal/cli package.
//
// Build-time variables (version, commit, date) are injected via ldflags
// for release builds, e.g.
//
//	go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse --short HEAD)"
package main

import (
	"github.com/shinji-kodama/overcast-launcher/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
