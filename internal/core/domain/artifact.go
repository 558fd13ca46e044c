package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Artifact is the binary produced by one target.
type Artifact struct {
	Target TargetID
	Path   string
}

// FinalArtifact is the single binary shipped for a platform.
type FinalArtifact struct {
	Platform Platform
	Path     string
	Archs    []Arch
	// Checksum is the hex BLAKE3 digest of the file, empty when not computed.
	Checksum string
}

// BuildRecord captures the last successful build of a target.
type BuildRecord struct {
	Target       string    `json:"target,omitzero"`
	Fingerprint  string    `json:"fingerprint,omitzero"`
	ArtifactHash string    `json:"artifact_hash,omitzero"`
	Artifact     string    `json:"artifact,omitzero"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
}

// TargetResult is the outcome of one target's pipeline.
type TargetResult struct {
	Target   TargetID
	State    TargetState
	Artifact *Artifact
	Failure  *BuildFailure
	Duration time.Duration
}

// RunSummary collects every target result and assembled artifact of a run.
type RunSummary struct {
	Results   []TargetResult
	Artifacts []FinalArtifact
	// AssemblyFailures holds platform level failures, such as a lipo merge error.
	AssemblyFailures []*BuildFailure
}

// Failed reports whether any target or platform failed.
func (s RunSummary) Failed() bool {
	if len(s.AssemblyFailures) > 0 {
		return true
	}
	for _, r := range s.Results {
		if !r.State.Succeeded() {
			return true
		}
	}
	return false
}

// Failures returns every failure in target order followed by assembly failures.
func (s RunSummary) Failures() []*BuildFailure {
	var out []*BuildFailure
	for _, r := range s.Results {
		if r.Failure != nil {
			out = append(out, r.Failure)
		}
	}
	return append(out, s.AssemblyFailures...)
}

// ArchiveFormat selects the compression used when packaging artifacts.
type ArchiveFormat string

const (
	// ArchiveTarGz is a gzip compressed tarball.
	ArchiveTarGz ArchiveFormat = "tar.gz"
	// ArchiveTarXz is an xz compressed tarball.
	ArchiveTarXz ArchiveFormat = "tar.xz"
	// ArchiveTarZst is a zstd compressed tarball.
	ArchiveTarZst ArchiveFormat = "tar.zst"
)

// ParseArchiveFormat validates a user supplied format name.
func ParseArchiveFormat(s string) (ArchiveFormat, error) {
	switch f := ArchiveFormat(s); f {
	case ArchiveTarGz, ArchiveTarXz, ArchiveTarZst:
		return f, nil
	case "tgz":
		return ArchiveTarGz, nil
	case "txz":
		return ArchiveTarXz, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrConfigInvalid, "unknown archive format"), "format", s)
	}
}

// Extension returns the file suffix including the leading dot.
func (f ArchiveFormat) Extension() string {
	return "." + string(f)
}
