// Package fileio opens and creates card files, handling gzip, zstd and lz4
// compression transparently.
//
// Reads memory-map the file where the platform supports it and detect the
// compression from the leading magic bytes. Writes pick the compression from
// the file extension.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression int

const (
	// None means the data is stored as plain text.
	None Compression = iota
	// Gzip is RFC 1952 gzip.
	Gzip
	// Zstd is Zstandard.
	Zstd
	// LZ4 is the LZ4 frame format.
	LZ4
)

// String returns the conventional name of the format.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect identifies the compression of data from its first bytes.
func Detect(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	case bytes.HasPrefix(header, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// ForPath picks the compression for a file name by its extension.
func ForPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// closers runs release functions in order and joins their errors.
type closers []func() error

func (c closers) Close() error {
	var errs []error
	for _, fn := range c {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// readCloser couples a decompressing reader with the release of the mapping.
type readCloser struct {
	io.Reader
	closers
}

// writeCloser flushes the compressor before closing the file.
type writeCloser struct {
	io.Writer
	closers
}

// Open opens path for reading and returns its decompressed contents.
// The caller must Close the result.
func Open(path string) (io.ReadCloser, error) {
	data, cleanup, err := mapFile(path)
	if err != nil {
		return nil, err
	}

	r, closeDecoder, err := NewReader(bytes.NewReader(data), Detect(data))
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &readCloser{Reader: r, closers: closers{closeDecoder, cleanup}}, nil
}

// NewReader wraps r with a decompressor for c. The returned function releases
// the decompressor and does not close r.
func NewReader(r io.Reader, c Compression) (io.Reader, func() error, error) {
	noop := func() error { return nil }
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, zr.Close, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, func() error { zr.Close(); return nil }, nil
	case LZ4:
		return lz4.NewReader(r), noop, nil
	default:
		return r, noop, nil
	}
}

// Create creates or truncates path. Data written to the result is compressed
// according to the file extension. Close must be called to flush it.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	w, closeEncoder, err := NewWriter(f, ForPath(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &writeCloser{Writer: w, closers: closers{closeEncoder, f.Close}}, nil
}

// NewWriter wraps w with a compressor for c. The returned function flushes
// and releases the compressor and does not close w.
func NewWriter(w io.Writer, c Compression) (io.Writer, func() error, error) {
	switch c {
	case Gzip:
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zw, zw.Close, nil
	case LZ4:
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}
