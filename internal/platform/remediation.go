package platform

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// Problem names a group of remediation entries in the table.
type Problem string

const (
	// ProblemPython is shown for EnvironmentMissing.
	ProblemPython Problem = "python"

	// ProblemToolkit is shown for DependencyMissing.
	ProblemToolkit Problem = "toolkit"
)

// defaultKey is the catch-all entry every problem must define.
const defaultKey = "default"

//go:embed remediation.yaml
var remediationYAML []byte

// Table maps a problem to per-platform advisory lines.
type Table map[Problem]map[string][]string

// Vars are substituted into remediation lines.
type Vars struct {
	// MinVersion replaces "{min}".
	MinVersion model.Version

	// Python replaces "{python}". Defaults to "python3" when empty.
	Python string
}

// DefaultTable parses the embedded remediation table.
func DefaultTable() (Table, error) {
	return ParseTable(remediationYAML)
}

// ParseTable decodes a YAML remediation table and checks that every
// problem has a default entry, so Lookup never comes back empty.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse remediation table: %w", err)
	}
	for _, problem := range []Problem{ProblemPython, ProblemToolkit} {
		entries, ok := t[problem]
		if !ok {
			return nil, fmt.Errorf("remediation table: missing problem %q", problem)
		}
		if len(entries[defaultKey]) == 0 {
			return nil, fmt.Errorf("remediation table: problem %q has no %q entry", problem, defaultKey)
		}
	}
	return t, nil
}

// Lookup returns the advisory lines for problem on platform p. Keys are
// tried from most to least specific (see model.Platform.Keys), falling
// back to the default entry.
func (t Table) Lookup(problem Problem, p model.Platform, vars Vars) []string {
	entries := t[problem]

	lines := entries[defaultKey]
	for _, key := range p.Keys() {
		if l, ok := entries[key]; ok && len(l) > 0 {
			lines = l
			break
		}
	}

	python := vars.Python
	if python == "" {
		python = "python3"
	}
	r := strings.NewReplacer(
		"{min}", fmt.Sprintf("%d.%d", vars.MinVersion.Major, vars.MinVersion.Minor),
		"{python}", python,
	)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = r.Replace(l)
	}
	return out
}
