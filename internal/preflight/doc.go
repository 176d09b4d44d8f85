// Package preflight checks that the installer package is complete in the
// working directory before anything is executed.
package preflight
