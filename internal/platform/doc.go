// Package platform detects the host operating system and provides the
// remediation lookup table used in launcher diagnostics.
//
// Package names for Python and Tkinter differ between package managers,
// so the advice is data, not code: an embedded YAML table keyed by
// os-release ID, ID_LIKE, Go OS name, and a "default" fallback. Adding a
// distribution means adding a key to remediation.yaml.
package platform
