package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubLogger(t *testing.T) {
	t.Parallel()
	_, err := NewSubLogger("")
	assert.ErrorIs(t, err, errEmptyLoggerName)

	sl, err := NewSubLogger("TESTING")
	require.NoError(t, err)
	assert.Equal(t, "TESTING", sl.name)

	_, err = NewSubLogger("TESTING")
	assert.ErrorIs(t, err, errSubLoggerAlreadyRegistered)
}

func TestStage(t *testing.T) {
	t.Parallel()
	sl, err := NewSubLogger("STAGE")
	require.NoError(t, err)

	var buf bytes.Buffer
	sl.SetOutput(&buf)
	sl.SetLevels(Levels{Info: true, Warn: true, Error: true})

	Infof(sl, "hello %s", "world")
	assert.Contains(t, buf.String(), "[INFO] STAGE hello world")

	buf.Reset()
	Debugf(sl, "hidden")
	assert.Empty(t, buf.String(), "debug should be filtered when disabled")

	sl.SetLevels(Levels{Debug: true})
	Debugln(sl, "visible")
	assert.Contains(t, buf.String(), "[DEBUG] STAGE visible")
}

func TestNilSubLogger(t *testing.T) {
	t.Parallel()
	var sl *SubLogger
	assert.NotPanics(t, func() { Errorf(sl, "no target %d", 42) })
}

func TestEnabled(t *testing.T) {
	t.Parallel()
	f := &logFields{info: true}
	assert.True(t, f.enabled(infoHeader))
	assert.False(t, f.enabled(warnHeader))
	assert.False(t, f.enabled("[NOPE]"))
	f = nil
	assert.False(t, f.enabled(infoHeader))
}
