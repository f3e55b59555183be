//go:build !unix

package fileio

import (
	"fmt"
	"os"
)

// mapFile reads a file into memory on platforms without mmap support.
// The cleanup function is a no-op kept for parity with the Unix version.
func mapFile(filename string) ([]byte, func() error, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, func() error { return nil }, nil
}
