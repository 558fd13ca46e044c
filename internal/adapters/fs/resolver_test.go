package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/fs"
)

func TestResolver_ResolveInputs(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"z.patch", "a.patch", "m.patch", "ffmpeg.config"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("content"), 0o600))
	}

	resolver := fs.NewResolver()

	tests := []struct {
		name   string
		inputs []string
		want   []string
	}{
		{"glob sorted", []string{"*.patch"}, []string{"a.patch", "m.patch", "z.patch"}},
		{"deduplicated", []string{"a.patch", "*.patch", "a.patch"}, []string{"a.patch", "m.patch", "z.patch"}},
		{"multiple patterns", []string{"*.config", "z.patch"}, []string{"ffmpeg.config", "z.patch"}},
		{"absolute", []string{filepath.Join(tmpDir, "m.patch")}, []string{"m.patch"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := resolver.ResolveInputs(tt.inputs, tmpDir)
			require.NoError(t, err)
			var got []string
			for _, r := range resolved {
				got = append(got, filepath.Base(r))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ResolveInputs_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	resolver := fs.NewResolver()

	_, err := resolver.ResolveInputs([]string{"["}, tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")

	_, err = resolver.ResolveInputs([]string{"*.nonexistent"}, tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input not found")
}
