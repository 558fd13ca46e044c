package flagfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/flagfile"
	"go.trai.ch/ffbuild/internal/core/domain"
)

func TestReadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg.config")
	content := "# codecs\n--disable-everything\n\n  --enable-decoder=vorbis  \n--enable-libmp3lame\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	flags, err := flagfile.NewReader().ReadFlags(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfigureFlagSet{
		"--disable-everything",
		"--enable-decoder=vorbis",
		"--enable-libmp3lame",
	}, flags)
}

func TestReadFlags_MissingFile(t *testing.T) {
	flags, err := flagfile.NewReader().ReadFlags(filepath.Join(t.TempDir(), "nope.config"))
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestReadFlags_Directory(t *testing.T) {
	_, err := flagfile.NewReader().ReadFlags(t.TempDir())
	require.Error(t, err)
}
