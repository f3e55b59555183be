package vcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := NewBuilder().Version(V30).FormattedName("a").AddPhone("1", "home", "voice").MustBuild()
	b := NewBuilder().Version(V30).FormattedName("a").AddPhone("1", "VOICE", "HOME").MustBuild()
	c := NewBuilder().Version(V40).FormattedName("a").AddPhone("1", "home", "voice").MustBuild()
	d := NewBuilder().Version(V30).FormattedName("a").AddPhone("2", "home", "voice").MustBuild()

	require.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint(), "version is part of the fingerprint")
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
	assert.Equal(t, a.Fingerprint(), a.Fingerprint())
}

func TestDedupe(t *testing.T) {
	cards, err := Parse(
		"BEGIN:VCARD\nVERSION:3.0\nFN:a\nEND:VCARD\n" +
			"BEGIN:VCARD\nVERSION:3.0\nFN:b\nEND:VCARD\n" +
			"BEGIN:VCARD\nversion:3.0\nfn:a\nEND:VCARD\n" +
			"BEGIN:VCARD\nVERSION:3.0\nFN:a\nNOTE:differs\nEND:VCARD\n")
	require.NoError(t, err)
	require.Len(t, cards, 4)

	got := Dedupe(cards)
	require.Len(t, got, 3)
	assert.Same(t, cards[0], got[0])
	assert.Same(t, cards[1], got[1])
	assert.Same(t, cards[3], got[2])

	assert.Empty(t, Dedupe(nil))
}
