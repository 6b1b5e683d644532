// Package archive expands compressed and archived inputs (gzip, zstd, zip,
// 7z) into a scratch directory so the engine can mmap plain files
// regardless of how the operator's logs are packaged.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// ErrUnsupported is returned for a filename whose extension this package
// does not know how to expand.
var ErrUnsupported = errors.New("archive: unsupported file type")

// codec names a single-file compression format (as opposed to a
// multi-member archive).
type codec struct {
	suffix string
	opener func(io.Reader) (io.ReadCloser, error)
}

var codecs = []codec{
	{".gz", func(r io.Reader) (io.ReadCloser, error) { return pgzip.NewReader(r) }},
	{".zst", newZstdReadCloser},
	{".zstd", newZstdReadCloser},
}

func newZstdReadCloser(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

// Expand inspects filename's extension and, if it names a compressed
// single file or a multi-member archive, extracts its plain-text members
// into a fresh scratch directory under os.TempDir. It returns the list of
// extracted plain file paths and a cleanup func that removes the scratch
// directory; cleanup is always non-nil when err is nil.
//
// A filename this package does not recognize as compressed/archived is
// returned unchanged as the sole entry, with a no-op cleanup — callers can
// run Expand unconditionally ahead of a scan.
func Expand(filename string) (paths []string, cleanup func(), err error) {
	lower := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(lower, ".zip"):
		return expandZip(filename)
	case strings.HasSuffix(lower, ".7z"):
		return expandSevenZip(filename)
	case isTarArchive(lower):
		return expandTar(filename)
	}

	for _, c := range codecs {
		if strings.HasSuffix(lower, c.suffix) {
			return expandSingle(filename, c)
		}
	}

	return []string{filename}, func() {}, nil
}

func scratchDir() (string, error) {
	return os.MkdirTemp("", "pgweasel-archive-*")
}

func expandSingle(filename string, c codec) ([]string, func(), error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	r, err := c.opener(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	defer r.Close()

	dir, err := scratchDir()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outPath := filepath.Join(dir, base)

	out, err := os.Create(outPath)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("decompress %s: %w", filename, err)
	}

	return []string{outPath}, cleanup, nil
}

func expandZip(filename string) ([]string, func(), error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip %s: %w", filename, err)
	}
	defer zr.Close()

	dir, err := scratchDir()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	var paths []string
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		p, err := extractZipMember(dir, member)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("zip %s: no regular files found", filename)
	}
	return paths, cleanup, nil
}

func extractZipMember(dir string, member *zip.File) (string, error) {
	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("open zip member %s: %w", member.Name, err)
	}
	defer rc.Close()

	outPath := filepath.Join(dir, filepath.Base(member.Name))
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return "", fmt.Errorf("extract zip member %s: %w", member.Name, err)
	}
	return outPath, nil
}

func expandSevenZip(filename string) ([]string, func(), error) {
	zr, err := sevenzip.OpenReader(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open 7z %s: %w", filename, err)
	}
	defer zr.Close()

	dir, err := scratchDir()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	var paths []string
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open 7z member %s: %w", member.Name, err)
		}
		outPath := filepath.Join(dir, filepath.Base(member.Name))
		out, err := os.Create(outPath)
		if err != nil {
			rc.Close()
			cleanup()
			return nil, nil, fmt.Errorf("create %s: %w", outPath, err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		out.Close()
		if copyErr != nil {
			cleanup()
			return nil, nil, fmt.Errorf("extract 7z member %s: %w", member.Name, copyErr)
		}
		paths = append(paths, outPath)
	}
	if len(paths) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("7z %s: no regular files found", filename)
	}
	return paths, cleanup, nil
}
