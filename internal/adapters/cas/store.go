// Package cas implements the build record storage.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	recordsDir = "records"
	dirPerm    = 0o750
	filePerm   = 0o644
)

var _ ports.BuildRecordStore = (*Store)(nil)

// Store implements ports.BuildRecordStore using a file-per-target strategy.
// Each record is stored as <dir>/records/<sha256(target)>.json.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build record for a given target.
func (s *Store) Get(dir, target string) (*domain.BuildRecord, error) {
	filename := s.filename(dir, target)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read build record"), "path", filename)
	}

	var rec domain.BuildRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal build record"), "path", filename)
	}

	return &rec, nil
}

// Put stores the build record, replacing the file atomically.
func (s *Store) Put(dir string, rec domain.BuildRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filename := s.filename(dir, rec.Target)
	if err := os.MkdirAll(filepath.Dir(filename), dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create build record directory")
	}

	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build record"), "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build record"), "path", filename)
	}

	return nil
}

// Clear removes every stored record.
func (s *Store) Clear(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(dir, recordsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to list build records")
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, recordsDir, e.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove build record"), "file", e.Name())
		}
	}
	return nil
}

func (s *Store) filename(dir, target string) string {
	hash := sha256.Sum256([]byte(target))
	return filepath.Join(dir, recordsDir, hex.EncodeToString(hash[:])+".json")
}
