// Package hash provides the content hash used for card fingerprints.
package hash

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// Hasher accumulates data written through io.WriteString and reports its xxHash64.
type Hasher struct {
	d *xxhash.Digest
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// WriteString adds s to the hash.
func (h *Hasher) WriteString(s string) (int, error) {
	return h.d.WriteString(s)
}

// Write adds p to the hash.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.d.Write(p)
}

// Sum64 returns the hash of everything written so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}

var _ io.StringWriter = (*Hasher)(nil)
