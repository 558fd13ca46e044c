// Package flagfile reads configure flag files from disk.
package flagfile

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FlagSource = (*Reader)(nil)

// Reader implements ports.FlagSource.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFlags returns one flag per non-blank, non-comment line of the file at path.
func (r *Reader) ReadFlags(path string) (domain.ConfigureFlagSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // flag files live under the project's flag directory
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read flag file"), "path", path)
	}
	return domain.ParseFlagLines(string(data)), nil
}
