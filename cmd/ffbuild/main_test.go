package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/app"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "targets with manifest",
			args:         []string{"ffbuild", "targets"},
			expectedExit: 0,
		},
		{
			name:         "plan explicit platform",
			args:         []string{"ffbuild", "plan", "linux", "-a", "x64"},
			expectedExit: 0,
		},
		{
			name:         "unknown platform",
			args:         []string{"ffbuild", "build", "beos"},
			expectedExit: 1,
		},
		{
			name:         "unknown command",
			args:         []string{"ffbuild", "transcode"},
			expectedExit: 1,
		},
		{
			name:         "nothing to package",
			args:         []string{"ffbuild", "package"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			manifest := "version: \"1\"\nbinary: ffprobe\n"
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ffbuild.yaml"), []byte(manifest), 0o600))

			t.Chdir(tmpDir)
			os.Args = tt.args

			exitCode := run(func(a *app.App) {
				a.WithOutput(io.Discard)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
