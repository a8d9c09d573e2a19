// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// TextMatch is one pattern occurrence reported by a TextScanner, with byte offsets.
type TextMatch struct {
	PatternIndex int // index into the patterns the scanner was built from
	Start        int // byte offset start (inclusive)
	End          int // byte offset end (exclusive)
}

// TextScanner finds every occurrence of a fixed pattern set in one pass over the
// content (Aho-Corasick). Overlapping occurrences are all reported, including
// overlapping occurrences of the same pattern. Content is matched as-is: the
// caller folds case before building and before scanning.
//
// A built scanner is immutable and safe for concurrent Scan calls.
type TextScanner interface {
	// Scan returns every occurrence in content. Order is unspecified.
	Scan(content []byte) []TextMatch

	// PatternCount returns the number of patterns the scanner was built from.
	PatternCount() int

	// Pattern returns the pattern at idx, or "" when out of range.
	Pattern(idx int) string
}

// ScannerBuilder compiles a TextScanner from a pattern list. Patterns must be
// non-empty and unique; PatternIndex values refer to positions in this slice.
type ScannerBuilder func(patterns []string) TextScanner
