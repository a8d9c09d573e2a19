package hierarchy

import "github.com/corey/lexmatch/internal/domain/span"

// pathBuilder composes per-node hits into chains, children before parents.
type pathBuilder struct {
	text        string
	ignoreChars string
	hits        map[*Node][]span.Span // sorted by Start, then End descending
	policy      AmbiguityPolicy
	onAmbiguous func(*AmbiguousAdjoinError)
}

// build returns every chain found in n's subtree, in discovery order.
//
// Each own hit of n either extends the one chain from n's subtrees whose full
// span it adjoins, or starts a new chain. Chains started by n itself, and
// chains n already extended, are not extended again by n. An own hit lying
// inside an earlier own hit (a shorter alias of the same node) is skipped.
func (b *pathBuilder) build(n *Node) ([]*Chain, error) {
	var chains []*Chain
	for _, child := range n.Children {
		found, err := b.build(child)
		if err != nil {
			return nil, err
		}
		chains = append(chains, found...)
	}

	fromBelow := len(chains)
	covered := -1
	for _, s := range b.hits[n] {
		if s.End <= covered {
			continue
		}
		covered = s.End
		m := Match{Span: s, Node: n}

		var adjoining []*Chain
		for _, c := range chains[:fromBelow] {
			if c.Root().Node == n {
				continue
			}
			if c.FullSpan().Adjoins(s, b.text, b.ignoreChars) {
				adjoining = append(adjoining, c)
			}
		}

		switch len(adjoining) {
		case 0:
			chains = append(chains, newChain(b.text, m))
		case 1:
			adjoining[0].Append(m)
		default:
			target, err := b.disambiguate(m, adjoining)
			if err != nil {
				return nil, err
			}
			target.Append(m)
		}
	}
	return chains, nil
}

// disambiguate applies the configured policy to a match adjoining several chains.
func (b *pathBuilder) disambiguate(m Match, adjoining []*Chain) (*Chain, error) {
	if b.onAmbiguous != nil || b.policy == PolicyError {
		snapshot := make([]*Chain, len(adjoining))
		for i, c := range adjoining {
			snapshot[i] = c.clone()
		}
		ambErr := &AmbiguousAdjoinError{Match: m, Candidates: snapshot}
		if b.onAmbiguous != nil {
			b.onAmbiguous(ambErr)
		}
		if b.policy == PolicyError {
			return nil, ambErr
		}
	}

	if b.policy == PolicyLongest {
		best := adjoining[0]
		for _, c := range adjoining[1:] {
			if c.SpanLen() > best.SpanLen() {
				best = c
			}
		}
		return best, nil
	}
	return adjoining[0], nil
}
