//go:build unix

package fileio

import (
	"fmt"
	"os"
	"syscall"
)

// mapFile memory-maps a file for reading.
// Returns the mapped byte slice and a cleanup function that must be called to unmap the file.
//
// IMPORTANT: Do not use the data slice after calling cleanup().
func mapFile(filename string) ([]byte, func() error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := stat.Size()
	if size == 0 || !stat.Mode().IsRegular() {
		// Nothing to map; pipes and devices are read normally
		f.Close()
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, func() error { return nil }, nil
	}

	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		int(size),
		syscall.PROT_READ,
		syscall.MAP_SHARED,
	)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	cleanup := func() error {
		err := syscall.Munmap(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}

	return data, cleanup, nil
}
