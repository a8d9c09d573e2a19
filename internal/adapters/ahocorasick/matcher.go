// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	"github.com/corey/lexmatch/internal/ports"
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// TextScanner wraps an Aho-Corasick automaton for lexicon scanning.
// It returns byte offsets for every occurrence, overlapping ones included.
type TextScanner struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// Compile-time check that TextScanner satisfies the port.
var _ ports.TextScanner = (*TextScanner)(nil)

// NewTextScanner builds a text scanner from the given patterns.
// The automaton uses standard match semantics, which overlapping iteration requires.
func NewTextScanner(patterns []string) *TextScanner {
	p := make([]string, len(patterns))
	copy(p, patterns)
	if len(p) == 0 {
		return &TextScanner{patterns: p}
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &TextScanner{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Builder adapts NewTextScanner to ports.ScannerBuilder.
func Builder(patterns []string) ports.TextScanner {
	return NewTextScanner(patterns)
}

// Scan finds all pattern matches in content and returns them with byte offsets.
func (s *TextScanner) Scan(content []byte) []ports.TextMatch {
	if len(s.patterns) == 0 || len(content) == 0 {
		return nil
	}
	iter := s.automaton.IterOverlappingByte(content)
	var matches []ports.TextMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		matches = append(matches, ports.TextMatch{
			PatternIndex: m.Pattern(),
			Start:        m.Start(),
			End:          m.End(),
		})
	}
	return matches
}

// PatternCount returns the number of patterns in the automaton.
func (s *TextScanner) PatternCount() int {
	return len(s.patterns)
}

// Pattern returns the pattern string at the given index.
func (s *TextScanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}
