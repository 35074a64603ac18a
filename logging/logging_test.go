package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("physics", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String(), "debug output must be suppressed when debug is off")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "[physics] DEBUG: shown 2")

	l.Infof("info")
	assert.Contains(t, out.String(), "INFO: info")

	l.Warnf("warn")
	l.Errorf("error")
	l.Criticalf("shape pair %d", 9)
	assert.Contains(t, errOut.String(), "WARN: warn")
	assert.Contains(t, errOut.String(), "ERROR: error")
	assert.Contains(t, errOut.String(), "CRITICAL: shape pair 9")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger("", false, &out, &out)
	l.Infof("plain")
	assert.Contains(t, out.String(), "INFO: plain")
	assert.NotContains(t, out.String(), "[")
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.Criticalf("ignored")

	d := NewNopLogger()
	assert.Same(t, d, OrNop(d))
}
