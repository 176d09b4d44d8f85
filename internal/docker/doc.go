// Package docker probes the Docker Engine for the launcher's advisory
// container check.
//
// The Overcast installer rewrites the project's Dockerfile and ends with
// docker build instructions, so the launcher tells the user up front
// when no daemon is reachable. The probe never blocks the handoff.
//
// The package uses github.com/docker/docker/client with API version
// negotiation and the same socket detection rules the Docker CLI uses.
package docker
