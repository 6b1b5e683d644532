//go:build !(linux || darwin)
// +build !linux,!darwin

package engine

import (
	"fmt"
	"io"
	"os"
)

// mapFile falls back to reading the whole file into memory on platforms
// without a mmap syscall wired up here. Callers see the same []byte-in,
// release-func-out contract regardless of platform.
func mapFile(filename string) (data []byte, release func(), err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return data, func() {}, nil
}
