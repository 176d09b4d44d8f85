package launcher

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// countingReader records whether anything tried to read from it.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

// TestPause_Disabled verifies that a disabled pause never touches stdin.
func TestPause_Disabled(t *testing.T) {
	var out bytes.Buffer
	in := &countingReader{r: strings.NewReader("\n")}

	NewReporter(&out, in, false).Pause()

	assert.Zero(t, in.reads)
	assert.Empty(t, out.String())
}

// TestPause_ConsumesOneLine verifies that the pause stops at the first
// newline and that EOF also ends the wait.
func TestPause_ConsumesOneLine(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, strings.NewReader("first\nsecond\n"), true)

	r.Pause()
	assert.Contains(t, out.String(), PausePrompt)

	rest, _ := r.in.ReadString('\n')
	assert.Equal(t, "second\n", rest)

	NewReporter(&out, strings.NewReader(""), true).Pause()
}

func TestPause_NilInput(t *testing.T) {
	var out bytes.Buffer
	NewReporter(&out, nil, true).Pause()
	assert.Empty(t, out.String())
}

// TestFailure_Format verifies the boxed headline and remediation list.
func TestFailure_Format(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, nil, false)

	err := model.NewLaunchError(model.KindDependencyMissing, "tkinter is not available", "sudo apt-get install python3-tk")
	err.Err = errors.New("No module named 'tkinter'")
	r.Failure(err)

	rule := strings.Repeat("=", boxWidth)
	assert.Equal(t, "\n"+rule+"\n  ERROR: tkinter is not available\n"+rule+"\n"+
		"Details: No module named 'tkinter'\n\n"+
		"  - sudo apt-get install python3-tk\n", out.String())
}

// TestFailure_ChildHeading verifies the "Common solutions" heading is
// only used for installer failures.
func TestFailure_ChildHeading(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, nil, false)

	r.Failure(model.ChildFailed(1, "check permissions"))
	assert.Contains(t, out.String(), "Common solutions:\n  - check permissions")

	out.Reset()
	r.Failure(model.NewLaunchError(model.KindFileNotFound, "x not found", "re-download"))
	assert.NotContains(t, out.String(), "Common solutions")
}

func TestCheckAndNote(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, nil, false)

	r.Check("Python:", "3.12.1 (python3)")
	r.Note("Docker is %s", "not reachable")

	assert.Contains(t, out.String(), "[OK] Python:")
	assert.Contains(t, out.String(), "3.12.1 (python3)")
	assert.Contains(t, out.String(), "[!!] Docker is not reachable")
}
