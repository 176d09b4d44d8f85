// Package model defines the domain types and value objects for the
// overcast-launcher CLI.
//
// This package contains pure data structures with no external dependencies.
// Nothing is persisted: the interpreter, version and platform values are
// rebuilt on every run by querying the host.
//
// The package also defines exit codes (ExitCode) and the LaunchError type,
// which carries an exit code and remediation text for the CLI layer.
package model
