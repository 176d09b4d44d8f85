// Package python discovers a Python runtime on the search path and
// probes it for importable modules.
//
// Like the git wrapper it was modeled on, this package shells out via
// os/exec rather than linking anything: the runtime is an external
// program and the launcher only needs two facts from it. Both are
// obtained by running small -c snippets:
//   - the version tuple, printed as JSON and decoded
//   - whether "import <module>" exits zero
//
// Process execution sits behind the Runner interface so tests can
// describe any host without installing Python.
package python
