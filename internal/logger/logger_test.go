package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	DisableColors()
	Initialize(&buf, &buf, &buf, &buf)
	t.Cleanup(func() {
		SetLevel(LevelWarning)
		EnableColors()
		Initialize(nil, nil, nil, nil)
	})

	SetLevel(LevelWarning)
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warningf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "WARNING: ")
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "error 4")

	buf.Reset()
	SetLevel(LevelDebug)
	Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG: ")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetLevel_IgnoresOutOfRange(t *testing.T) {
	SetLevel(LevelInfo)
	SetLevel(42)
	assert.Equal(t, LevelInfo, LogLevel)
	SetLevel(LevelWarning)
}

func TestDisableColors_KeepsRedirectedOutput(t *testing.T) {
	var buf bytes.Buffer
	Initialize(&buf, &buf, &buf, &buf)
	t.Cleanup(func() {
		EnableColors()
		Initialize(nil, nil, nil, nil)
	})

	DisableColors()
	Errorf("still here")
	assert.Contains(t, buf.String(), "ERROR: ")
	assert.Contains(t, buf.String(), "still here")
	assert.NotContains(t, buf.String(), "\x1b[")
}
