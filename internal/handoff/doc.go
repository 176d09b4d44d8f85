// Package handoff starts the installer as a child process attached to the
// launcher's console and waits for it to finish.
package handoff
