// Package span provides half-open byte intervals over a single text string and
// the small algebra the matcher needs on them: overlap, adjacency across filler
// characters, and folding a set of spans into a minimal disjoint cover.
//
// Offsets are byte offsets into the UTF-8 text the spans were produced from.
package span

import (
	"sort"
	"strings"
)

// DefaultIgnoreChars is the filler set used when deciding whether two spans are
// written back-to-back: spaces, brackets and light punctuation. It includes
// '-' so that "A - B" adjoins; as a side effect hyphenated compounds such as
// "A-B" adjoin too. Pass a set without '-' to keep them apart.
const DefaultIgnoreChars = " (),.;-"

// Span is a half-open byte range [Start, End) into one text string.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// New returns a span, swapping the bounds if they are reversed.
func New(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Range returns the span itself. It lets a plain Span live in a Group.
func (s Span) Range() Span { return s }

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Clone returns an independent copy.
func (s Span) Clone() Span { return Span{Start: s.Start, End: s.End} }

// Text returns the covered substring of text, clamped to its bounds.
func (s Span) Text(text string) string {
	start, end := clamp(s.Start, len(text)), clamp(s.End, len(text))
	if end < start {
		return ""
	}
	return text[start:end]
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return max(0, min(s.End, o.End)-max(s.Start, o.Start)) > 0
}

// Adjoins reports whether s and o do not overlap and the text strictly between
// their nearer ends consists only of characters from ignoreChars.
func (s Span) Adjoins(o Span, text string, ignoreChars string) bool {
	if s.Overlaps(o) {
		return false
	}
	var gapStart, gapEnd int
	if s.End <= o.Start {
		gapStart, gapEnd = s.End, o.Start
	} else {
		gapStart, gapEnd = o.End, s.Start
	}
	gap := Span{Start: gapStart, End: gapEnd}.Text(text)
	return strings.Trim(gap, ignoreChars) == ""
}

// Accumulate sorts spans by (Start, Len) and folds every span that overlaps or
// adjoins the previous one into it. The result is a minimal disjoint cover and
// does not alias the input slice.
func Accumulate(spans []Span, text string, ignoreChars string) []Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Len() < sorted[j].Len()
	})

	out := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if last.Overlaps(s) || last.Adjoins(s, text, ignoreChars) {
			last.End = max(last.End, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Blank returns a copy of text where every byte covered by spans is replaced by
// a space. Offsets in the result line up with the original.
func Blank(text string, spans []Span) string {
	if len(spans) == 0 {
		return text
	}
	b := []byte(text)
	for _, s := range spans {
		start, end := clamp(s.Start, len(b)), clamp(s.End, len(b))
		for i := start; i < end; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
