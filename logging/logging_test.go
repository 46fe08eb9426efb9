package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger() (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewDefaultLoggerWithWriters(&stdout, &stderr), &stdout, &stderr
}

func TestDefaultLoggerRouting(t *testing.T) {
	logger, stdout, stderr := newBufferedLogger()

	logger.Debug("hidden")
	logger.Info("computed", Fields{"bin": 13, "component": "fft"})
	logger.Warn("slow")
	logger.Error(errors.New("boom"), "failed")

	out := stdout.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] computed bin=13 component=fft")

	errOut := stderr.String()
	assert.Contains(t, errOut, "[WARN] slow")
	assert.Contains(t, errOut, "[ERROR] failed: boom")
	assert.NotContains(t, errOut, "\033[", "writer loggers are uncolored")
}

func TestDefaultLoggerLevelIsShared(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()
	child := logger.WithFields(Fields{"component": "estimator"})

	logger.SetLevel(DebugLevel)
	child.Debug("dispatch", Fields{"parallel": true})

	assert.Contains(t, stdout.String(), "[DEBUG] dispatch component=estimator parallel=true")
}

func TestDefaultLoggerWithContext(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()

	ctx := ContextWithFields(context.Background(), Fields{"file": "a.wav"})
	logger.WithContext(ctx).Info("decoded")
	logger.WithContext(context.Background()).Info("plain")

	assert.Contains(t, stdout.String(), "[INFO] decoded file=a.wav")
	assert.Contains(t, stdout.String(), "[INFO] plain\n")
}

func TestDefaultLoggerFatalExits(t *testing.T) {
	logger, _, stderr := newBufferedLogger()

	code := -1
	logger.exit = func(c int) { code = c }
	logger.Fatal(errors.New("bad input"), "giving up")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[FATAL] giving up: bad input")
}

func TestColoredOutput(t *testing.T) {
	logger, _, stderr := newBufferedLogger()
	logger.SetColors(true)

	logger.Warn("careful")
	assert.Contains(t, stderr.String(), ColorYellow+"[WARN] careful"+ColorReset)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warn":    WarnLevel,
		"Warning": WarnLevel,
		"error":   ErrorLevel,
		" fatal ": FatalLevel,
	}

	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestGlobalLogger(t *testing.T) {
	previous := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(previous) })

	logger, stdout, _ := newBufferedLogger()
	SetGlobalLogger(logger)

	WithFields(Fields{"component": "cli"}).Info("ready")
	assert.Contains(t, stdout.String(), "[INFO] ready component=cli")

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())
	Info("dropped")
}
