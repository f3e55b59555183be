package vcard

import (
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-vcard/internal/folding"
	"github.com/shapestone/shape-vcard/internal/parser"
)

// Line ending styles reported by Sniffer.LineEnding.
const (
	LineEndingNone  = ""
	LineEndingCRLF  = "\r\n"
	LineEndingLF    = "\n"
	LineEndingMixed = "mixed"
)

// Sniffer inspects a sample of vCard text without building cards.
type Sniffer struct {
	sample   string
	analyzed bool

	cards       int
	versions    []Version
	versionUses map[Version]int
	lineEnding  string
	folded      bool
	longest     int
}

// NewSniffer creates a Sniffer for sample. The sample may be truncated;
// a partial last record is counted once its BEGIN line is seen.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.analyzed = true
	s.versionUses = make(map[Version]int)
	s.lineEnding = detectLineEnding(s.sample)

	for _, physical := range strings.Split(s.sample, "\n") {
		physical = strings.TrimSuffix(physical, "\r")
		if n := utf8.RuneCountInString(physical); n > s.longest {
			s.longest = n
		}
		if physical != "" && (physical[0] == ' ' || physical[0] == '\t') {
			s.folded = true
		}
	}

	lines := folding.NewStringReader(s.sample)
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		text := strings.TrimSpace(line.Text)
		if strings.EqualFold(text, beginMarker) {
			s.cards++
			continue
		}
		if len(text) < len("VERSION") || !strings.EqualFold(text[:len("VERSION")], "VERSION") {
			continue
		}
		p, err := parser.ParseLine(text)
		if err != nil || p.Name != "VERSION" {
			continue
		}
		if v, ok := ParseVersion(p.Value); ok {
			if s.versionUses[v] == 0 {
				s.versions = append(s.versions, v)
			}
			s.versionUses[v]++
		}
	}
}

func detectLineEnding(sample string) string {
	crlf := strings.Count(sample, "\r\n")
	lf := strings.Count(sample, "\n") - crlf
	switch {
	case crlf == 0 && lf == 0:
		return LineEndingNone
	case lf == 0:
		return LineEndingCRLF
	case crlf == 0:
		return LineEndingLF
	}
	return LineEndingMixed
}

// CardCount returns the number of BEGIN:VCARD lines.
func (s *Sniffer) CardCount() int {
	s.analyze()
	return s.cards
}

// Versions returns the distinct supported versions in first-seen order.
func (s *Sniffer) Versions() []Version {
	s.analyze()
	return append([]Version(nil), s.versions...)
}

// DominantVersion returns the most used version, or VersionUnknown when
// the sample declares none. Ties go to the version seen first.
func (s *Sniffer) DominantVersion() Version {
	s.analyze()
	best := VersionUnknown
	for _, v := range s.versions {
		if best == VersionUnknown || s.versionUses[v] > s.versionUses[best] {
			best = v
		}
	}
	return best
}

// LineEnding returns one of the LineEnding constants.
func (s *Sniffer) LineEnding() string {
	s.analyze()
	return s.lineEnding
}

// HasFolding reports whether any continuation line was seen.
func (s *Sniffer) HasFolding() bool {
	s.analyze()
	return s.folded
}

// LongestLine returns the length in runes of the longest physical line.
func (s *Sniffer) LongestLine() int {
	s.analyze()
	return s.longest
}

// WriterOptions suggests writer options that reproduce the sample's style.
func (s *Sniffer) WriterOptions() WriterOptions {
	opts := DefaultWriterOptions()
	if v := s.DominantVersion(); v != VersionUnknown {
		opts.TargetVersion = v
	}
	opts.FoldLines = s.HasFolding() || s.LongestLine() <= DefaultMaxLineLength
	return opts
}
