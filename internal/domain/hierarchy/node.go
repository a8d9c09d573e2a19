package hierarchy

import (
	"sort"
	"strings"

	"github.com/corey/lexmatch/internal/domain/span"
	"github.com/corey/lexmatch/internal/ports"
)

// Node is one entry of a hierarchy: a canonical name, its aliases, and the
// child tier below it. Nodes own their children; there is no parent pointer.
// HierarchyPath is filled in when the tree is handed to New and must not be
// edited afterwards. Aliases should be changed through Hierarchy.ExpandNames
// or Hierarchy.AddAlias so the name cache is dropped.
type Node struct {
	Name          string
	Alias         []string
	HierarchyPath []string       // ancestor names, root first, excluding self
	Level         string         // config key naming this tier, "" for the root
	Children      []*Node
	Info          map[string]any // extension data: direct, overlap, description, orgCode

	tiers []string // Level of each ancestor, parallel to HierarchyPath
}

// NewNode returns a node with the given name and aliases.
func NewNode(name string, alias ...string) *Node {
	return &Node{Name: name, Alias: alias}
}

// Add appends children under the tier label level and returns n for chaining.
func (n *Node) Add(level string, children ...*Node) *Node {
	for _, c := range children {
		c.Level = level
	}
	n.Children = append(n.Children, children...)
	return n
}

// Depth is 1 for the root and grows by one per tier.
func (n *Node) Depth() int { return len(n.HierarchyPath) + 1 }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Path returns the full path including n itself, root first.
func (n *Node) Path() []string {
	out := make([]string, 0, len(n.HierarchyPath)+1)
	out = append(out, n.HierarchyPath...)
	return append(out, n.Name)
}

func (n *Node) String() string {
	return strings.Join(n.Path(), " > ")
}

// Names returns [Name] + Alias, case-folded when opts.IgnoreCase, without
// duplicates (after folding) or empty entries, and sorted longest first when
// opts.LongestNameFirst. The order only decides which name is tried first;
// matching is exhaustive either way.
func (n *Node) Names(opts MatchOptions) []string {
	seen := make(map[string]bool, 1+len(n.Alias))
	out := make([]string, 0, 1+len(n.Alias))
	add := func(name string) {
		if opts.IgnoreCase {
			name = foldName(name)
		}
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	add(n.Name)
	for _, a := range n.Alias {
		add(a)
	}
	if opts.LongestNameFirst {
		sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	}
	return out
}

// Match scans text for every literal occurrence of every resolved name of n,
// overlapping occurrences included. Hits are grouped name by name in Names
// order. This is the one-node reference scan; Hierarchy.FindMatch scans all
// nodes at once with a compiled automaton and returns the same spans.
func (n *Node) Match(text string, opts MatchOptions) []Match {
	names := n.Names(opts)
	haystack, offsets := text, []int(nil)
	if opts.IgnoreCase {
		haystack, offsets = foldCase(text)
	}
	var out []Match
	for _, tm := range newLiteralScanner(names).Scan([]byte(haystack)) {
		out = append(out, Match{Span: toOriginal(tm, offsets), Node: n})
	}
	return out
}

// toOriginal maps a scanner hit on folded text back to original offsets.
func toOriginal(tm ports.TextMatch, offsets []int) span.Span {
	if offsets == nil {
		return span.Span{Start: tm.Start, End: tm.End}
	}
	return span.Span{Start: offsets[tm.Start], End: offsets[tm.End]}
}

// literalScanner is the per-pattern linear scanner used when no compiled
// scanner is configured. After a hit at i it resumes at i+1, so overlapping
// occurrences are all found.
type literalScanner struct {
	patterns []string
}

func newLiteralScanner(patterns []string) *literalScanner {
	return &literalScanner{patterns: patterns}
}

// LiteralScanner is a ports.ScannerBuilder backed by repeated strings.Index.
func LiteralScanner(patterns []string) ports.TextScanner {
	p := make([]string, len(patterns))
	copy(p, patterns)
	return newLiteralScanner(p)
}

func (s *literalScanner) Scan(content []byte) []ports.TextMatch {
	text := string(content)
	var out []ports.TextMatch
	for idx, p := range s.patterns {
		if p == "" {
			continue
		}
		for from := 0; from <= len(text)-len(p); {
			i := strings.Index(text[from:], p)
			if i < 0 {
				break
			}
			start := from + i
			out = append(out, ports.TextMatch{PatternIndex: idx, Start: start, End: start + len(p)})
			from = start + 1
		}
	}
	return out
}

func (s *literalScanner) PatternCount() int { return len(s.patterns) }

func (s *literalScanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}
