// Package observability configures the launcher's diagnostic logger.
package observability

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger tagged with app. Verbose enables
// debug output; otherwise only warnings and errors are written.
func NewLogger(w io.Writer, app string, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
}
