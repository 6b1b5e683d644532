//go:build linux || darwin
// +build linux darwin

package engine

import (
	"fmt"
	"os"
	"syscall"
)

// mapFile memory-maps filename for reading. The returned release func must
// be called exactly once, after the mapped bytes are no longer needed.
func mapFile(filename string) (data []byte, release func(), err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", filename, err)
	}
	size := stat.Size()
	if size == 0 {
		return nil, func() {}, nil
	}

	data, err = syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", filename, err)
	}
	return data, func() { syscall.Munmap(data) }, nil
}
