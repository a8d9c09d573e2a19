package hierarchy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// foldCase lowercases s one rune at a time with unicode.ToLower. A few runes
// change byte length when lowered (KELVIN SIGN, for one); when that happens the
// returned offsets map every folded byte index, plus len(folded), back to the
// original byte offset so spans can be reported against the unmodified text.
// offsets is nil when folding kept every rune's width.
//
// Invalid UTF-8 bytes are copied through unchanged.
func foldCase(s string) (folded string, offsets []int) {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return strings.ToLower(s), nil
	}

	var b strings.Builder
	b.Grow(len(s))
	offsets = make([]int, 0, len(s)+1)
	sameWidth := true
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(s[i])
			offsets = append(offsets, i)
			i++
			continue
		}
		before := b.Len()
		b.WriteRune(unicode.ToLower(r))
		if b.Len()-before != size {
			sameWidth = false
		}
		for k := before; k < b.Len(); k++ {
			offsets = append(offsets, i)
		}
		i += size
	}
	offsets = append(offsets, len(s))
	if sameWidth {
		return b.String(), nil
	}
	return b.String(), offsets
}

// foldName folds a node name the same way foldCase folds text.
func foldName(s string) string {
	f, _ := foldCase(s)
	return f
}
