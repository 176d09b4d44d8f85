package launcher

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// boxWidth is the width of the ruler lines around headlines.
const boxWidth = 62

// PausePrompt is printed before waiting for acknowledgment.
const PausePrompt = "Press Enter to exit..."

// Reporter writes user-facing diagnostics. Everything here is plain text
// for a human in a console window; machine-readable detail goes to the
// debug log instead.
type Reporter struct {
	out   io.Writer
	in    *bufio.Reader
	pause bool
}

// NewReporter creates a Reporter writing to out. When pause is true,
// Pause blocks until a line (or EOF) is read from in.
func NewReporter(out io.Writer, in io.Reader, pause bool) *Reporter {
	r := &Reporter{out: out, pause: pause}
	if in != nil {
		r.in = bufio.NewReader(in)
	}
	return r
}

// Header prints the launcher title and detected platform.
func (r *Reporter) Header(p model.Platform) {
	r.box("Overcast Agent Installer")
	fmt.Fprintf(r.out, "Platform: %s\n\n", p)
}

// Check prints the outcome of one preflight step.
func (r *Reporter) Check(label, result string) {
	fmt.Fprintf(r.out, "  [OK] %-22s %s\n", label, result)
}

// Note prints an advisory line that does not affect the outcome.
func (r *Reporter) Note(format string, args ...any) {
	fmt.Fprintf(r.out, "  [!!] "+format+"\n", args...)
}

// Starting announces the handoff command line.
func (r *Reporter) Starting(argv []string) {
	fmt.Fprintf(r.out, "\nStarting installer: %s\n\n", strings.Join(argv, " "))
}

// Success prints the success banner.
func (r *Reporter) Success() {
	fmt.Fprintln(r.out)
	r.box("Installation completed successfully!")
}

// Failure prints the error box followed by its remediation lines.
func (r *Reporter) Failure(err *model.LaunchError) {
	fmt.Fprintln(r.out)
	r.box("ERROR: " + err.Message)

	if err.Err != nil && err.Kind != model.KindFileNotFound {
		fmt.Fprintf(r.out, "Details: %v\n", err.Err)
	}
	if len(err.Remedies) > 0 {
		fmt.Fprintln(r.out)
		if err.Kind == model.KindChildProcessFailed {
			fmt.Fprintln(r.out, "Common solutions:")
		}
		for _, line := range err.Remedies {
			fmt.Fprintf(r.out, "  - %s\n", line)
		}
	}
}

// Pause prints PausePrompt and waits for Enter. It returns immediately
// when pausing is disabled or no input is attached.
func (r *Reporter) Pause() {
	if !r.pause || r.in == nil {
		return
	}
	fmt.Fprintf(r.out, "\n%s", PausePrompt)
	_, _ = r.in.ReadString('\n')
	fmt.Fprintln(r.out)
}

func (r *Reporter) box(title string) {
	rule := strings.Repeat("=", boxWidth)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "  %s\n", title)
	fmt.Fprintln(r.out, rule)
}
