package hierarchy

import "github.com/corey/lexmatch/internal/domain/span"

// MatchOptions controls one FindMatch call.
//
// IgnoreCase and LongestNameFirst shape the derived name lists and form the
// cache key; IgnoreChars only affects adjacency and never invalidates the cache.
type MatchOptions struct {
	IgnoreCase       bool
	LongestNameFirst bool
	IgnoreChars      string // filler between adjoining matches; "" means span.DefaultIgnoreChars
}

// DefaultMatchOptions returns case-insensitive, longest-name-first matching
// with the default filler characters.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		IgnoreCase:       true,
		LongestNameFirst: true,
		IgnoreChars:      span.DefaultIgnoreChars,
	}
}

func (o MatchOptions) ignoreChars() string {
	if o.IgnoreChars == "" {
		return span.DefaultIgnoreChars
	}
	return o.IgnoreChars
}

// nameKey is the part of MatchOptions the name cache depends on.
type nameKey struct {
	ignoreCase       bool
	longestNameFirst bool
}

func (o MatchOptions) key() nameKey {
	return nameKey{ignoreCase: o.IgnoreCase, longestNameFirst: o.LongestNameFirst}
}
