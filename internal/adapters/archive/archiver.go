// Package archive packs release artifacts into compressed tarballs.
package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

var _ ports.Archiver = (*Archiver)(nil)

// Archiver implements ports.Archiver.
type Archiver struct {
	progress    io.Writer
	interactive bool
}

// NewArchiver creates an Archiver drawing a progress bar on progress when it is a terminal.
func NewArchiver(progress io.Writer) *Archiver {
	interactive := false
	if f, ok := progress.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
	}
	return &Archiver{progress: progress, interactive: interactive}
}

// Archive writes files into dest. Entries are named by their path relative to
// root and owned by root so the tarball is identical across machines.
func (a *Archiver) Archive(
	ctx context.Context,
	dest string,
	format domain.ArchiveFormat,
	root string,
	files []string,
) error {
	if len(files) == 0 {
		return zerr.Wrap(domain.ErrNothingToPublish, "no files to archive")
	}

	var total int64
	infos := make([]os.FileInfo, len(files))
	names := make([]string, len(files))
	for i, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "artifact outside archive root"), "path", path)
		}
		names[i] = filepath.ToSlash(rel)
		info, err := os.Stat(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
		}
		if !info.Mode().IsRegular() {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "artifact is not a regular file"), "path", path)
		}
		infos[i] = info
		total += info.Size()
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create archive directory")
	}
	tmp := dest + ".tmp"
	out, err := os.Create(tmp) //nolint:gosec // dest is derived from the artifacts directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create archive"), "path", tmp)
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(a.progress),
		progressbar.OptionSetDescription("packing "+filepath.Base(dest)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetVisibility(a.interactive),
		progressbar.OptionClearOnFinish(),
	)

	err = a.write(ctx, out, format, files, names, infos, bar)
	_ = bar.Finish()
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = zerr.Wrap(closeErr, "failed to close archive")
	}
	if err != nil {
		_ = os.Remove(tmp)
		return zerr.With(err, "archive", dest)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return zerr.Wrap(err, "failed to finalize archive")
	}
	return nil
}

func (a *Archiver) write(
	ctx context.Context,
	out io.Writer,
	format domain.ArchiveFormat,
	files []string,
	names []string,
	infos []os.FileInfo,
	bar io.Writer,
) error {
	cw, err := compressor(out, format)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(cw)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			_ = cw.Close()
			return zerr.Wrap(err, "packing cancelled")
		}
		if err := addFile(tw, path, names[i], infos[i], bar); err != nil {
			_ = cw.Close()
			return err
		}
	}
	if err := tw.Close(); err != nil {
		_ = cw.Close()
		return zerr.Wrap(err, "failed to finish tar stream")
	}
	if err := cw.Close(); err != nil {
		return zerr.Wrap(err, "failed to finish compression")
	}
	return nil
}

func addFile(tw *tar.Writer, path, name string, info os.FileInfo, bar io.Writer) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return zerr.Wrap(err, "failed to build tar header")
	}
	hdr.Name = name
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "root", "root"
	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.Wrap(err, "failed to write tar header")
	}

	f, err := os.Open(path) //nolint:gosec // path was stat'ed above
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := io.Copy(io.MultiWriter(tw, bar), f); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy artifact"), "path", path)
	}
	return nil
}

func compressor(w io.Writer, format domain.ArchiveFormat) (io.WriteCloser, error) {
	switch format {
	case domain.ArchiveTarGz:
		return pgzip.NewWriter(w), nil
	case domain.ArchiveTarXz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create xz writer")
		}
		return xw, nil
	case domain.ArchiveTarZst:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create zstd writer")
		}
		return zw, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown archive format"), "format", string(format))
	}
}
