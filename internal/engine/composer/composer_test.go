package composer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/flagfile"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/ffbuild/internal/engine/composer"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var ffmpeg = domain.StepSpec{Name: "ffmpeg", Dir: "ffmpeg"}

func target(id domain.TargetID, caps domain.Capability, tc domain.Toolchain) domain.BuildTarget {
	return domain.BuildTarget{ID: id, Toolchain: tc, Capabilities: caps, Root: "/work/" + id.String()}
}

func TestCompose_CommonBeforeTarget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg.config"),
		[]byte("--enable-x\n#comment\n\n--enable-y"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg.linux-x64.config"),
		[]byte("--disable-z\n"), 0o600))

	c := composer.New(flagfile.NewReader(), dir)
	tg := target(domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}, 0, domain.Toolchain{})

	flags, _, err := c.Compose(ffmpeg, tg)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfigureFlagSet{"--enable-x", "--enable-y", "--disable-z"}, flags)
}

func TestCompose_MissingFiles(t *testing.T) {
	c := composer.New(flagfile.NewReader(), t.TempDir())
	tg := target(domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}, 0, domain.Toolchain{})

	flags, env, err := c.Compose(ffmpeg, tg)
	require.NoError(t, err)
	assert.Empty(t, flags)
	assert.NotEmpty(t, env["CFLAGS"])
}

func TestCompose_UsesFlagTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockFlagSource(ctrl)
	c := composer.New(src, "/flags")
	id := domain.TargetID{Platform: domain.PlatformWindows, Arch: domain.ArchX64}

	gomock.InOrder(
		src.EXPECT().ReadFlags("/flags/mp3lame.config").Return(domain.ConfigureFlagSet{"--a"}, nil),
		src.EXPECT().ReadFlags("/flags/mp3lame.windows-x64.config").Return(nil, nil),
	)

	flags, _, err := c.Compose(domain.StepSpec{Name: "lame", FlagTool: "mp3lame"}, target(id, 0, domain.Toolchain{}))
	require.NoError(t, err)
	assert.Equal(t, domain.ConfigureFlagSet{"--a"}, flags)
}

func TestCompose_ReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockFlagSource(ctrl)
	src.EXPECT().ReadFlags(gomock.Any()).Return(nil, zerr.New("permission denied"))

	c := composer.New(src, "/flags")
	_, _, err := c.Compose(ffmpeg, target(domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}, 0,
		domain.Toolchain{}))
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "ffmpeg", zErr.Metadata()["step"])
}

func TestEnvironment(t *testing.T) {
	id := domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}
	tg := target(id, domain.CapCross|domain.CapMinOSVersion, domain.Toolchain{
		CC:           "clang",
		CXX:          "clang++",
		ArchFlags:    []string{"-arch", "arm64"},
		MinOSVersion: "11.0",
	})
	step := domain.StepSpec{Name: "lame", Env: map[string]string{"CFLAGS": "-O2", "LAME_OPTS": "1"}}

	env := composer.Environment(step, tg)
	prefix := tg.PrefixDir()

	assert.Equal(t, "-O2", env["CFLAGS"], "step env wins")
	assert.Equal(t, "-I"+filepath.Join(prefix, "include"), env["CPPFLAGS"])
	assert.Equal(t, "-L"+filepath.Join(prefix, "lib")+" -arch arm64 -mmacosx-version-min=11.0", env["LDFLAGS"])
	assert.Equal(t, filepath.Join(prefix, "lib", "pkgconfig"), env["PKG_CONFIG_PATH"])
	assert.Equal(t, "clang", env["CC"])
	assert.Equal(t, "clang++", env["CXX"])
	assert.Equal(t, "1", env["LAME_OPTS"])
}

func TestEnvironment_Native(t *testing.T) {
	tg := target(domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}, 0,
		domain.Toolchain{CC: "gcc"})
	env := composer.Environment(ffmpeg, tg)

	assert.NotContains(t, env, "CC")
	assert.Equal(t, "-I"+filepath.Join(tg.PrefixDir(), "include"), env["CFLAGS"])
}

func TestConfigureArgs(t *testing.T) {
	flags := domain.ConfigureFlagSet{"--disable-shared"}

	native := target(domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}, 0,
		domain.Toolchain{HostTriple: "x86_64-linux-gnu"})
	assert.Equal(t, []string{"--prefix=" + native.PrefixDir(), "--disable-shared"},
		composer.ConfigureArgs(native, flags))

	cross := target(domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchArm64}, domain.CapCross,
		domain.Toolchain{HostTriple: "aarch64-linux-gnu"})
	assert.Equal(t, []string{"--prefix=" + cross.PrefixDir(), "--host=aarch64-linux-gnu", "--disable-shared"},
		composer.ConfigureArgs(cross, flags))
}
