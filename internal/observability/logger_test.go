package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	var quiet bytes.Buffer
	log := NewLogger(&quiet, "overcast-launcher", false)
	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "shown")

	var verbose bytes.Buffer
	log = NewLogger(&verbose, "overcast-launcher", true)
	log.Debug().Str("command", "python3").Msg("interpreter selected")
	assert.Contains(t, verbose.String(), "interpreter selected")
	assert.Contains(t, verbose.String(), "command=python3")
	assert.Contains(t, verbose.String(), "app=overcast-launcher")
}
