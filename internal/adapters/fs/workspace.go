package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Workspace = (*Workspace)(nil)

// Workspace copies source trees and artifacts on the local disk.
type Workspace struct {
	walker *Walker
}

// NewWorkspace creates a new Workspace.
func NewWorkspace(walker *Walker) *Workspace {
	return &Workspace{walker: walker}
}

// CopyTree mirrors src into dst. Directories, regular files and symlinks are
// preserved; VCS metadata is skipped. An existing dst is removed first. When dst
// lies inside src it is left out of the copy.
func (ws *Workspace) CopyTree(src, dst string) error {
	if err := ws.RemoveAll(dst); err != nil {
		return err
	}
	src, dst = filepath.Clean(src), filepath.Clean(dst)

	err := filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dst {
			return filepath.SkipDir
		}
		if skip, action := ws.walker.shouldSkip(d, nil); skip {
			return action
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case d.Type()&iofs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target)
		}
	})
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to copy tree"), "src", src), "dst", dst)
	}
	return nil
}

// CopyFile copies one file, creating dst's parent directory.
func (ws *Workspace) CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(dst))
	}
	if err := copyFile(src, dst); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to copy file"), "src", src), "dst", dst)
	}
	return nil
}

// RemoveAll removes path and any children.
func (ws *Workspace) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", path)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only file

	info, err := in.Stat()
	if err != nil {
		return err
	}

	//nolint:gosec // Path is controlled by caller
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
