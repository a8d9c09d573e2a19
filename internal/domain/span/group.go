package span

// Ranged is anything that covers a Span of text.
type Ranged interface {
	Range() Span
}

// Group is an ordered list of spans over one reference text. Order is the
// caller's: the group never re-sorts its members.
type Group[T Ranged] struct {
	Text  string
	Items []T
}

// NewGroup returns a group over text holding the given items.
func NewGroup[T Ranged](text string, items ...T) Group[T] {
	return Group[T]{Text: text, Items: items}
}

// Append adds an item at the end of the group.
func (g *Group[T]) Append(item T) {
	g.Items = append(g.Items, item)
}

// Len returns the number of members.
func (g *Group[T]) Len() int { return len(g.Items) }

// MinStart returns the smallest start offset among members, 0 for an empty group.
func (g *Group[T]) MinStart() int {
	if len(g.Items) == 0 {
		return 0
	}
	m := g.Items[0].Range().Start
	for _, it := range g.Items[1:] {
		m = min(m, it.Range().Start)
	}
	return m
}

// MaxEnd returns the largest end offset among members, 0 for an empty group.
func (g *Group[T]) MaxEnd() int {
	if len(g.Items) == 0 {
		return 0
	}
	m := g.Items[0].Range().End
	for _, it := range g.Items[1:] {
		m = max(m, it.Range().End)
	}
	return m
}

// FullSpan returns the bounding range of all members.
func (g *Group[T]) FullSpan() Span {
	return Span{Start: g.MinStart(), End: g.MaxEnd()}
}

// SpanLen is the bounding extent MaxEnd-MinStart, not the sum of member lengths.
func (g *Group[T]) SpanLen() int {
	return g.MaxEnd() - g.MinStart()
}

// Ranges returns the plain spans of all members in group order.
func (g *Group[T]) Ranges() []Span {
	out := make([]Span, len(g.Items))
	for i, it := range g.Items {
		out[i] = it.Range()
	}
	return out
}
