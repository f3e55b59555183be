package vcard

import (
	"github.com/shapestone/shape-vcard/internal/hash"
)

// fingerprintWriter renders every property a card can hold, unfolded.
var fingerprintWriter = &Writer{opts: WriterOptions{TargetVersion: V40}}

// Fingerprint returns a content hash of c. Cards that are Equal have the
// same fingerprint.
func (c *Card) Fingerprint() uint64 {
	h := hash.NewHasher()
	_, _ = h.WriteString(c.version.String())
	fingerprintWriter.writeCard(h, c)
	return h.Sum64()
}

// Dedupe returns cards without duplicates, keeping the first occurrence.
// Duplicates are cards with the same Fingerprint that are also Equal.
func Dedupe(cards []*Card) []*Card {
	seen := make(map[uint64][]*Card, len(cards))
	out := make([]*Card, 0, len(cards))
next:
	for _, c := range cards {
		fp := c.Fingerprint()
		for _, prev := range seen[fp] {
			if prev.Equal(c) {
				continue next
			}
		}
		seen[fp] = append(seen[fp], c)
		out = append(out, c)
	}
	return out
}
