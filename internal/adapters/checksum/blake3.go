// Package checksum computes BLAKE3 digests of release artifacts.
package checksum

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"lukechampine.com/blake3"
)

// Extension is appended to an artifact path to name its sidecar.
const Extension = ".b3"

var _ ports.Checksummer = (*Summer)(nil)

// Summer implements ports.Checksummer with 256-bit BLAKE3.
type Summer struct{}

// NewSummer creates a new Summer.
func NewSummer() *Summer {
	return &Summer{}
}

// Sum returns the hex encoded digest of the file at path.
func (s *Summer) Sum(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // artifact paths are produced by the assembler
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash artifact"), "path", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteSidecar writes "<digest>  <basename>\n" to path+".b3", the b3sum check format.
func (s *Summer) WriteSidecar(path string) (string, error) {
	sum, err := s.Sum(path)
	if err != nil {
		return "", err
	}
	line := sum + "  " + filepath.Base(path) + "\n"
	if err := os.WriteFile(path+Extension, []byte(line), 0o644); err != nil { //nolint:gosec // sidecars are public
		return "", zerr.With(zerr.Wrap(err, "failed to write checksum"), "path", path+Extension)
	}
	return sum, nil
}
