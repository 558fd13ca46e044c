package domain

import "time"

// DefaultBinary is the binary shipped when the manifest names none.
const DefaultBinary = "ffprobe"

// DefaultTimeout bounds a single sub-command when the manifest sets no timeout.
const DefaultTimeout = 45 * time.Minute

// PatchSpec pairs a vendor file with the patch applied to it.
// File is relative to the source tree; Patch is resolved against the manifest directory.
type PatchSpec struct {
	File  string
	Patch string
}

// Paths holds the directories a project works with, relative to the manifest.
type Paths struct {
	Source    string
	Flags     string
	Work      string
	Artifacts string
	State     string
}

// TargetOverride replaces fields of a built-in target toolchain. Empty fields keep the default.
type TargetOverride struct {
	Host      string
	CC        string
	CXX       string
	Shell     string
	ArchFlags []string
	MinOS     string
	Disabled  bool
}

// PublishConfig describes the S3 compatible bucket artifacts are uploaded to.
type PublishConfig struct {
	Bucket   string
	Endpoint string
	Region   string
	Prefix   string
}

// Project is the loaded manifest.
type Project struct {
	Binary    string
	Paths     Paths
	Timeout   time.Duration
	Universal []Platform
	Bootstrap map[Platform][][]string
	Patches   map[Platform][]PatchSpec
	Steps     []StepSpec
	Targets   map[TargetID]TargetOverride
	Publish   PublishConfig
	// Inputs are extra files folded into every target fingerprint.
	Inputs []string
}

// IsUniversal reports whether per-arch binaries of p are merged.
func (p *Project) IsUniversal(platform Platform) bool {
	for _, u := range p.Universal {
		if u == platform {
			return true
		}
	}
	return false
}

// DefaultSteps returns the ogg, vorbis, lame, ffmpeg pipeline.
func DefaultSteps() []StepSpec {
	return []StepSpec{
		{Name: "ogg", Dir: "ogg", Autotools: true},
		{Name: "vorbis", Dir: "vorbis", Autotools: true, Requires: []string{"ogg"}},
		{Name: "lame", Dir: "lame"},
		{Name: "ffmpeg", Dir: "ffmpeg", Requires: []string{"ogg", "vorbis", "lame"}, Final: true},
	}
}

// DefaultPaths returns the directory layout used when the manifest omits it.
func DefaultPaths() Paths {
	return Paths{
		Source:    "buildscripts",
		Flags:     "buildscripts/flags",
		Work:      ".ffbuild/work",
		Artifacts: "artifacts",
		State:     ".ffbuild/state",
	}
}
