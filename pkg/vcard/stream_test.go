package vcard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeCards = "BEGIN:VCARD\nVERSION:3.0\nFN:one\nEND:VCARD\n" +
	"BEGIN:VCARD\nVERSION:3.0\nEND:VCARD\n" +
	"BEGIN:VCARD\nVERSION:4.0\nFN:three\nEND:VCARD\n"

func names(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.FormattedName()
	}
	return out
}

func TestScanner_Scan(t *testing.T) {
	s := NewScanner(strings.NewReader(threeCards), DefaultReaderOptions())
	var got []*Card
	for s.Scan() {
		got = append(got, s.Card())
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"one", "", "three"}, names(got))
	assert.Nil(t, s.Card())
	assert.False(t, s.Scan())
}

func TestScanner_StrictCollectsErrors(t *testing.T) {
	s := NewScanner(strings.NewReader(threeCards), StrictReaderOptions())
	var got []*Card
	for s.Scan() {
		got = append(got, s.Card())
	}
	assert.Equal(t, []string{"one", "three"}, names(got))

	var perr *ParseError
	require.ErrorAs(t, s.Err(), &perr)
	assert.Equal(t, 5, perr.StartLine)
	assert.Equal(t, 7, perr.Line)
	assert.ErrorIs(t, s.Err(), ErrMissingRequiredField)
}

func TestScanner_FailFast(t *testing.T) {
	opts := StrictReaderOptions()
	opts.FailFast = true
	s := NewScanner(strings.NewReader(threeCards), opts)

	var got []*Card
	for s.Scan() {
		got = append(got, s.Card())
	}
	assert.Equal(t, []string{"one"}, names(got))
	assert.ErrorIs(t, s.Err(), ErrMissingRequiredField)
}

func TestScanner_Next(t *testing.T) {
	s := NewScanner(strings.NewReader(threeCards), StrictReaderOptions())

	c, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", c.FormattedName())

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	c, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, "three", c.FormattedName())

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestScanner_All(t *testing.T) {
	s := NewScanner(strings.NewReader(threeCards), StrictReaderOptions())

	var got []string
	var errs int
	for c, err := range s.All() {
		if err != nil {
			errs++
			continue
		}
		got = append(got, c.FormattedName())
	}
	assert.Equal(t, []string{"one", "three"}, got)
	assert.Equal(t, 1, errs)
}

func TestScanner_AllBreak(t *testing.T) {
	s := NewScanner(strings.NewReader(threeCards), DefaultReaderOptions())
	for c, err := range s.All() {
		require.NoError(t, err)
		assert.Equal(t, "one", c.FormattedName())
		break
	}

	// The scanner resumes after an early break.
	require.True(t, s.Scan())
	assert.Equal(t, "", s.Card().FormattedName())
}

func TestScanner_ReadsLazily(t *testing.T) {
	r := &countingReader{r: iotest.OneByteReader(strings.NewReader(threeCards + strings.Repeat("X-PAD:"+strings.Repeat("x", 100)+"\n", 1000)))}
	s := NewScanner(r, DefaultReaderOptions())

	require.True(t, s.Scan())
	assert.Less(t, r.n, int64(len(threeCards)+64*1024), "scanner read far ahead of the first card")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestScanner_ReadError(t *testing.T) {
	r := io.MultiReader(strings.NewReader("BEGIN:VCARD\nVERSION:3.0\nFN:x\nEND:VCARD\nBEGIN:VCARD\n"), iotest.ErrReader(errors.New("disk gone")))
	s := NewScanner(r, DefaultReaderOptions())

	var got int
	for s.Scan() {
		got++
	}
	assert.Equal(t, 1, got)
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "disk gone")
}

func TestFiles_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cards := []*Card{
		NewBuilder().Version(V30).FormattedName("Alice").AddEmail("a@example.com", "internet").MustBuild(),
		NewBuilder().Version(V30).FormattedName("Bob").Note("multi\nline").MustBuild(),
	}

	for _, name := range []string{"plain.vcf", "gz.vcf.gz", "zstd.vcf.zst", "lz4.vcf.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, cards, DefaultWriterOptions()))

			got, err := ParseFile(path, StrictReaderOptions())
			require.NoError(t, err)
			require.Len(t, got, 2)
			for i := range cards {
				assert.True(t, cards[i].Equal(got[i]), "card %d differs", i)
			}

			var streamed []string
			for c, err := range ScanFile(path, StrictReaderOptions()) {
				require.NoError(t, err)
				streamed = append(streamed, c.FormattedName())
			}
			assert.Equal(t, []string{"Alice", "Bob"}, streamed)
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(threeCards), 0o600))

	s, err := OpenFile(path, DefaultReaderOptions())
	require.NoError(t, err)
	count := 0
	for s.Scan() {
		count++
	}
	assert.Equal(t, 3, count)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.vcf"), DefaultReaderOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanFile_Missing(t *testing.T) {
	var errs []error
	for _, err := range ScanFile(filepath.Join(t.TempDir(), "missing.vcf"), DefaultReaderOptions()) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestWriteFile_InvalidOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vcf")
	err := WriteFile(path, nil, WriterOptions{})

	var oerr *OptionsError
	require.ErrorAs(t, err, &oerr)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestParse_Concurrent(t *testing.T) {
	var input strings.Builder
	for i := range 50 {
		fmt.Fprintf(&input, "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Card %d\r\nEND:VCARD\r\n", i)
	}

	done := make(chan []*Card, 8)
	for range 8 {
		go func() {
			cards, _ := Parse(input.String())
			done <- cards
		}()
	}
	for range 8 {
		cards := <-done
		assert.Len(t, cards, 50)
	}
}
