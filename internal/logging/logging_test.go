package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.WithField("pid", 42).Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "pid=42")
	assert.NotContains(t, out, "\x1b[", "no colors for a buffer")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFuncHook(t *testing.T) {
	logger, err := New("debug", &bytes.Buffer{})
	require.NoError(t, err)

	var lines []string
	var levels []logrus.Level
	logger.AddHook(&FuncHook{Fn: func(level logrus.Level, line string) {
		levels = append(levels, level)
		lines = append(lines, line)
	}})

	logger.WithFields(logrus.Fields{"pid": 8, "exe": "a.exe"}).Error("terminate failed")
	logger.Debug("plain")

	assert.Equal(t, []string{"terminate failed exe=a.exe pid=8", "plain"}, lines)
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel, logrus.DebugLevel}, levels)
}
