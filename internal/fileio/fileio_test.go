package fileio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:John Doe\r\nEND:VCARD"

func TestForPath(t *testing.T) {
	tests := map[string]Compression{
		"contacts.vcf":     None,
		"contacts.vcf.gz":  Gzip,
		"CONTACTS.VCF.GZ":  Gzip,
		"contacts.vcf.zst": Zstd,
		"contacts.zstd":    Zstd,
		"contacts.vcf.lz4": LZ4,
		"contacts":         None,
	}
	for path, want := range tests {
		assert.Equal(t, want, ForPath(path), path)
	}
}

func TestCompression_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "gzip", Gzip.String())
	assert.Equal(t, "zstd", Zstd.String())
	assert.Equal(t, "lz4", LZ4.String())
}

func TestCreateOpen_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
		want Compression
	}{
		{"plain", "a.vcf", None},
		{"gzip", "a.vcf.gz", Gzip},
		{"zstd", "a.vcf.zst", Zstd},
		{"lz4", "a.vcf.lz4", LZ4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)

			w, err := Create(path)
			require.NoError(t, err)
			_, err = io.WriteString(w, sample)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Detect(raw))
			if tt.want != None {
				assert.NotEqual(t, sample, string(raw))
			}

			r, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, sample, string(got))
		})
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vcf")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.vcf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.vcf.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b, 0x00}, 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestNewReaderWriter(t *testing.T) {
	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, closeW, err := NewWriter(&buf, c)
			require.NoError(t, err)
			_, err = io.Copy(w, strings.NewReader(strings.Repeat(sample+"\r\n", 50)))
			require.NoError(t, err)
			require.NoError(t, closeW())

			assert.Equal(t, c, Detect(buf.Bytes()))

			r, closeR, err := NewReader(&buf, c)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, closeR())
			assert.Equal(t, strings.Repeat(sample+"\r\n", 50), string(got))
		})
	}
}
