package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	t.Cleanup(func() { log = nil })

	require.NoError(t, Init("debug", "", false))
	assert.Equal(t, logrus.DebugLevel, Get().GetLevel())

	require.NoError(t, Init("not-a-level", "", false))
	assert.Equal(t, logrus.InfoLevel, Get().GetLevel())
}

func reset() {
	if logFile != nil {
		logFile.Close()
	}
	log, logFile = nil, nil
}

func TestInitFile(t *testing.T) {
	t.Cleanup(reset)

	path := filepath.Join(t.TempDir(), "logs", "glr.log")
	require.NoError(t, Init("info", path, false))

	WithComponent("framebuffer").Warn("missing attachment")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "missing attachment")
	assert.Contains(t, string(data), "component=framebuffer")
}

func TestInitClosesPreviousFile(t *testing.T) {
	t.Cleanup(reset)

	dir := t.TempDir()
	require.NoError(t, Init("info", filepath.Join(dir, "first.log"), false))
	first := logFile
	require.NotNil(t, first)

	require.NoError(t, Init("info", filepath.Join(dir, "second.log"), false))
	assert.NotSame(t, first, logFile)
	_, err := first.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)

	second := logFile
	require.NoError(t, Init("info", "", false))
	assert.Nil(t, logFile)
	_, err = second.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestGetDefault(t *testing.T) {
	t.Cleanup(func() { log = nil })
	log = nil
	assert.NotNil(t, Get())
}
