package hierarchy

// resolve drops overlapping chains pairwise, keeping the one with the larger
// extent. Pairs are visited i < j in nested-loop order and only while both are
// still retained. The loser is the smaller (SpanLen, index) pair, so on an exact
// extent tie the earlier-discovered chain is dropped.
//
// TODO: confirm the tie-break with product owners; it decides which unit is
// attributed when two equally long paths cover the same text.
func resolve(chains []*Chain) []*Chain {
	keep := make([]bool, len(chains))
	for i := range keep {
		keep[i] = true
	}
	for i := range chains {
		for j := i + 1; j < len(chains); j++ {
			if !keep[i] || !keep[j] {
				continue
			}
			if !chains[i].FullSpan().Overlaps(chains[j].FullSpan()) {
				continue
			}
			if chains[i].SpanLen() <= chains[j].SpanLen() {
				keep[i] = false
			} else {
				keep[j] = false
			}
		}
	}

	out := make([]*Chain, 0, len(chains))
	for i, c := range chains {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
