package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { logger = New(os.Stdout, os.Stderr) })

	Infof("loaded %d recordings", 3)
	l := With().Str("view", "view0").Logger()
	l.Warn().Msg("short")

	out := buf.String()
	assert.Contains(t, out, `"message":"loaded 3 recordings"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"view":"view0"`)
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { logger = New(os.Stdout, os.Stderr) })

	require.NoError(t, SetLevel("warn"))
	Info("hidden")
	Warnf("shown %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, SetLevel("loud"))
}

func TestNewSplitsByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Info().Msg("progress")
	l.Error().Msg("broken")

	assert.Contains(t, out.String(), "progress")
	assert.NotContains(t, out.String(), "broken")
	assert.Contains(t, errOut.String(), "broken")
	assert.NotContains(t, errOut.String(), "progress")
}
