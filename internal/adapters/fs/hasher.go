package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes target fingerprints and file hashes with XXHash.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// FileHash returns the hex XXHash of a file.
func (h *Hasher) FileHash(path string) (string, error) {
	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// Fingerprint computes a single hash over the target's toolchain, its planned
// steps and the content of the input files.
func (h *Hasher) Fingerprint(target domain.BuildTarget, steps []domain.DependencyStep, inputs []string) (string, error) {
	hasher := xxhash.New()

	hashTarget(target, hasher)
	for i := range steps {
		hashStep(&steps[i], hasher)
	}
	_, _ = hasher.Write([]byte{0})

	for _, input := range slices.Sorted(slices.Values(inputs)) {
		if err := h.hashPath(input, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func writeField(hasher *xxhash.Digest, s string) {
	_, _ = hasher.WriteString(s)
	_, _ = hasher.Write([]byte{0})
}

// hashTarget hashes the target identity and toolchain.
func hashTarget(t domain.BuildTarget, hasher *xxhash.Digest) {
	writeField(hasher, t.ID.String())
	writeField(hasher, t.Toolchain.HostTriple)
	writeField(hasher, t.Toolchain.CC)
	writeField(hasher, t.Toolchain.CXX)
	writeField(hasher, t.Toolchain.Shell)
	writeField(hasher, strings.Join(t.Toolchain.ArchFlags, " "))
	writeField(hasher, t.Toolchain.MinOSVersion)
	_ = binary.Write(hasher, binary.LittleEndian, uint8(t.Capabilities))
	_, _ = hasher.Write([]byte{0})
}

// hashStep hashes the step's commands and environment in a deterministic order.
// The make job count only changes how fast a step builds, so it is left out.
func hashStep(s *domain.DependencyStep, hasher *xxhash.Digest) {
	writeField(hasher, s.Name)
	for _, c := range s.Commands {
		writeField(hasher, string(c.Kind))
		for _, a := range c.Args {
			if c.Kind == domain.KindBuild && strings.HasPrefix(a, "-j") {
				continue
			}
			writeField(hasher, a)
		}
		_, _ = hasher.Write([]byte{0})
	}

	for _, k := range slices.Sorted(maps.Keys(s.Env)) {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		writeField(hasher, s.Env[k])
	}
	_, _ = hasher.Write([]byte{0})
}

func (h *Hasher) hashPath(path string, mainHasher io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if info.IsDir() {
		for filePath := range h.walker.WalkFiles(path, nil) {
			if err := h.hashFile(filePath, mainHasher); err != nil {
				return err
			}
		}
		return nil
	}
	return h.hashFile(path, mainHasher)
}

func (h *Hasher) hashFile(path string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(path))
	_, _ = mainHasher.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
