package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// expandTar extracts regular file members of a .tar, .tar.gz/.tgz, or
// .tar.zst/.tzst archive into a scratch directory. The outer compression
// layer (if any) reuses the same gzip/zstd codecs as single-file Expand.
func expandTar(filename string) ([]string, func(), error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gz, err := codecs[0].opener(f)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip %s: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tar.zstd"), strings.HasSuffix(lower, ".tzst"):
		zr, err := newZstdReadCloser(f)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd %s: %w", filename, err)
		}
		defer zr.Close()
		r = zr
	}

	dir, err := scratchDir()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	var paths []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("reading tar %s: %w", filename, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		outPath := filepath.Join(dir, filepath.Base(hdr.Name))
		out, err := os.Create(outPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("create %s: %w", outPath, err)
		}
		_, copyErr := io.Copy(out, tr)
		out.Close()
		if copyErr != nil {
			cleanup()
			return nil, nil, fmt.Errorf("extract tar member %s: %w", hdr.Name, copyErr)
		}
		paths = append(paths, outPath)
	}
	if len(paths) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("tar %s: no regular files found", filename)
	}
	return paths, cleanup, nil
}

func isTarArchive(lower string) bool {
	suffixes := []string{".tar.gz", ".tgz", ".tar.zst", ".tar.zstd", ".tzst", ".tar"}
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
