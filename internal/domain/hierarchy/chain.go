package hierarchy

import (
	"strings"

	"github.com/corey/lexmatch/internal/domain/span"
)

// ConfirmedPrefix marks a HierarchyPath level that was matched in the text
// rather than inferred from the tree.
const ConfirmedPrefix = "+"

// Match is one occurrence of a node's name or alias in the text.
type Match struct {
	span.Span
	Node *Node
}

// Chain is one hypothesis about a stretch of text: the first match is the
// deepest level found, each later match an ancestor written right next to the
// chain as it grew upward.
type Chain struct {
	span.Group[Match]
}

func newChain(text string, m Match) *Chain {
	return &Chain{Group: span.NewGroup(text, m)}
}

// clone returns a chain with its own copy of the match list.
func (c *Chain) clone() *Chain {
	items := make([]Match, len(c.Items))
	copy(items, c.Items)
	return &Chain{Group: span.NewGroup(c.Text, items...)}
}

// Leaf returns the deepest match of the chain.
func (c *Chain) Leaf() Match { return c.Items[0] }

// Root returns the highest match of the chain.
func (c *Chain) Root() Match { return c.Items[len(c.Items)-1] }

// Spans returns the chain's matches, leaf first.
func (c *Chain) Spans() []Match {
	out := make([]Match, len(c.Items))
	copy(out, c.Items)
	return out
}

// Level is one tier of a chain's hierarchy path.
type Level struct {
	Name      string
	Tier      string // config key of the tier, "" for the root
	Confirmed bool   // true when a match for this level is part of the chain
}

// Levels returns the leaf node's full tree path, root first, flagging every
// level that has a match in the chain.
func (c *Chain) Levels() []Level {
	leaf := c.Leaf().Node
	levels := make([]Level, 0, leaf.Depth())
	for i, name := range leaf.HierarchyPath {
		tier := ""
		if i < len(leaf.tiers) {
			tier = leaf.tiers[i]
		}
		levels = append(levels, Level{Name: name, Tier: tier})
	}
	levels = append(levels, Level{Name: leaf.Name, Tier: leaf.Level})

	for _, m := range c.Items {
		if d := m.Node.Depth() - 1; d < len(levels) {
			levels[d].Confirmed = true
		}
	}
	return levels
}

// HierarchyPath returns the level names root first; confirmed levels carry
// ConfirmedPrefix.
func (c *Chain) HierarchyPath() []string {
	levels := c.Levels()
	out := make([]string, len(levels))
	for i, l := range levels {
		if l.Confirmed {
			out[i] = ConfirmedPrefix + l.Name
		} else {
			out[i] = l.Name
		}
	}
	return out
}

func (c *Chain) String() string {
	return strings.Join(c.HierarchyPath(), " > ")
}
