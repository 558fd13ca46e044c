package logger_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	originalStderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	require.NoError(t, w.Close())
	output := <-done
	require.NoError(t, r.Close())
	os.Stderr = originalStderr

	return output
}

func TestLogger_Info(t *testing.T) {
	output := captureStderr(t, func() {
		// Created inside the capture so it binds the redirected stderr.
		lg := logger.New()
		lg.Info("some message")
	})

	assert.Contains(t, output, "some message")
	assert.Contains(t, output, "INFO")
}

func TestLogger_Warn(t *testing.T) {
	buf := new(bytes.Buffer)
	lg := logger.NewWithWriter(buf)
	lg.Warn("some warning")

	assert.Contains(t, buf.String(), "some warning")
	assert.Contains(t, buf.String(), "WARN")
}

func TestLogger_Error(t *testing.T) {
	buf := new(bytes.Buffer)
	lg := logger.NewWithWriter(buf)
	lg.Error(os.ErrPermission)

	assert.Contains(t, buf.String(), "permission denied")
	assert.Contains(t, buf.String(), "ERROR")
}

func TestLogger_ErrorMetadata(t *testing.T) {
	buf := new(bytes.Buffer)
	lg := logger.NewWithWriter(buf)
	lg.Error(zerr.With(zerr.New("configure failed"), "step", "vorbis"))

	assert.Contains(t, buf.String(), "configure failed")
	assert.Contains(t, buf.String(), "vorbis")
}

func TestLogger_SetOutputAndQuiet(t *testing.T) {
	first := new(bytes.Buffer)
	second := new(bytes.Buffer)

	lg := logger.NewWithWriter(first)
	lg.SetOutput(second)
	lg.Info("moved")
	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "moved")

	second.Reset()
	lg.SetQuiet(true)
	lg.Info("hidden")
	lg.Warn("shown")
	assert.False(t, strings.Contains(second.String(), "hidden"))
	assert.Contains(t, second.String(), "shown")
}
