// Package hierarchy matches a labeled tree of names against free text and
// reconstructs which multi-level tree paths the text actually mentions.
//
// A Hierarchy is built once per config file (see Parse and LoadFile) and then
// used read-only across many documents. FindMatch scans every node name in one
// pass, composes adjoining matches bottom-up into chains (leaf first, ancestors
// appended), and prunes overlapping chains in favour of the longer one.
//
// The root node is the container of the tree: its name prefixes every path but
// is never searched for in the text.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/corey/lexmatch/internal/domain/span"
	"github.com/corey/lexmatch/internal/ports"
)

// ExpandRule derives an alias by replacing Old with New in existing names.
type ExpandRule struct {
	Old string `yaml:"old" json:"old"`
	New string `yaml:"new" json:"new"`
}

// Hierarchy owns a node tree, its expansion rules, and the name cache used by
// FindMatch. It is safe for concurrent use.
type Hierarchy struct {
	root  *Node
	rules []ExpandRule

	newScanner  ports.ScannerBuilder
	policy      AmbiguityPolicy
	onAmbiguous func(*AmbiguousAdjoinError)

	mu    sync.Mutex // serializes cache rebuilds and alias mutation
	cache atomic.Pointer[nameCache]
}

// Option configures a Hierarchy.
type Option func(*Hierarchy)

// WithScanner sets the multi-pattern scanner used by FindMatch. Without it the
// hierarchy falls back to LiteralScanner.
func WithScanner(b ports.ScannerBuilder) Option {
	return func(h *Hierarchy) { h.newScanner = b }
}

// WithAmbiguityPolicy sets how an ambiguous adjoin is resolved. Default PolicyError.
func WithAmbiguityPolicy(p AmbiguityPolicy) Option {
	return func(h *Hierarchy) { h.policy = p }
}

// WithAmbiguityHook registers fn to observe every ambiguous adjoin, whatever the policy.
func WithAmbiguityHook(fn func(*AmbiguousAdjoinError)) Option {
	return func(h *Hierarchy) { h.onAmbiguous = fn }
}

// New validates the tree under root, precomputes every node's HierarchyPath,
// and returns a Hierarchy over it. Every node needs a non-empty name and may
// appear in the tree only once.
func New(root *Node, opts ...Option) (*Hierarchy, error) {
	if root == nil {
		return nil, &ConfigError{Path: "$", Msg: "nil root"}
	}
	if err := annotate(root, "$", nil, nil, make(map[*Node]bool)); err != nil {
		return nil, err
	}
	h := &Hierarchy{root: root, newScanner: LiteralScanner}
	for _, opt := range opts {
		opt(h)
	}
	if h.newScanner == nil {
		h.newScanner = LiteralScanner
	}
	return h, nil
}

// annotate fills HierarchyPath and tiers top-down and rejects shared or unnamed nodes.
func annotate(n *Node, path string, ancestors, tiers []string, seen map[*Node]bool) error {
	if n == nil {
		return &ConfigError{Path: path, Msg: "nil node"}
	}
	if seen[n] {
		return &ConfigError{Path: path, Msg: fmt.Sprintf("node %q appears more than once in the tree", n.Name)}
	}
	seen[n] = true
	if strings.TrimSpace(n.Name) == "" {
		return &ConfigError{Path: path, Msg: "missing name"}
	}
	n.HierarchyPath = append([]string(nil), ancestors...)
	n.tiers = append([]string(nil), tiers...)

	childPath := append(append([]string(nil), ancestors...), n.Name)
	childTiers := append(append([]string(nil), tiers...), n.Level)
	for i, c := range n.Children {
		label := "children"
		if c != nil && c.Level != "" {
			label = c.Level
		}
		if err := annotate(c, fmt.Sprintf("%s.%s[%d]", path, label, i), childPath, childTiers, seen); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the root node.
func (h *Hierarchy) Root() *Node { return h.root }

// Rules returns the expansion rules applied so far, in order.
func (h *Hierarchy) Rules() []ExpandRule {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ExpandRule, len(h.rules))
	copy(out, h.rules)
	return out
}

// Policy returns the configured ambiguity policy.
func (h *Hierarchy) Policy() AmbiguityPolicy { return h.policy }

// Walk visits every node depth-first, parents before children.
func (h *Hierarchy) Walk(fn func(*Node) bool) { h.root.Walk(fn) }

// Find returns every node whose canonical name equals name, in tree order.
func (h *Hierarchy) Find(name string) []*Node {
	var out []*Node
	h.Walk(func(n *Node) bool {
		if n.Name == name {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Stats summarizes the tree.
type Stats struct {
	Nodes    int // including the root
	Names    int // names plus aliases across searchable nodes
	MaxDepth int
}

// Stats counts nodes, searchable names, and depth.
func (h *Hierarchy) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	var s Stats
	h.Walk(func(n *Node) bool {
		s.Nodes++
		if n != h.root {
			s.Names += 1 + len(n.Alias)
		}
		s.MaxDepth = max(s.MaxDepth, n.Depth())
		return true
	})
	return s
}

// Names returns the cached derived name list of n for opts.
func (h *Hierarchy) Names(n *Node, opts MatchOptions) []string {
	c := h.snapshot(opts.key())
	names := c.names[n]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Match is FindMatch with DefaultMatchOptions.
func (h *Hierarchy) Match(text string) ([]*Chain, error) {
	return h.FindMatch(text, DefaultMatchOptions())
}

// FindMatch returns the chains of adjoining node matches found in text that
// survive overlap pruning, in discovery order. Span offsets index text as
// given; text is never modified. The only error is *AmbiguousAdjoinError,
// under PolicyError.
func (h *Hierarchy) FindMatch(text string, opts MatchOptions) ([]*Chain, error) {
	c := h.snapshot(opts.key())
	b := &pathBuilder{
		text:        text,
		ignoreChars: opts.ignoreChars(),
		hits:        c.scan(text),
		policy:      h.policy,
		onAmbiguous: h.onAmbiguous,
	}
	chains, err := b.build(h.root)
	if err != nil {
		return nil, err
	}
	return resolve(chains), nil
}

// ExpandNames walks every node depth-first and, for each current name or alias
// containing from, adds an alias with from replaced by to. Returns the number
// of aliases added.
func (h *Hierarchy) ExpandNames(from, to string) int {
	return h.expand(h.root, ExpandRule{Old: from, New: to})
}

func (h *Hierarchy) expand(n *Node, r ExpandRule) int {
	if r.Old == "" {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	added := 0
	n.Walk(func(x *Node) bool {
		added += expandNode(x, r)
		return true
	})
	h.rules = append(h.rules, r)
	h.cache.Store(nil)
	return added
}

func expandNode(n *Node, r ExpandRule) int {
	current := make([]string, 0, 1+len(n.Alias))
	current = append(current, n.Name)
	current = append(current, n.Alias...)
	have := make(map[string]bool, len(current))
	for _, name := range current {
		have[name] = true
	}
	added := 0
	for _, name := range current {
		if !strings.Contains(name, r.Old) {
			continue
		}
		derived := strings.ReplaceAll(name, r.Old, r.New)
		if have[derived] {
			continue
		}
		have[derived] = true
		n.Alias = append(n.Alias, derived)
		added++
	}
	return added
}

// AddAlias appends aliases to n and drops the name cache.
func (h *Hierarchy) AddAlias(n *Node, alias ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n.Alias = append(n.Alias, alias...)
	h.cache.Store(nil)
}

// nameCache is the derived state for one nameKey: every node's resolved names
// and one scanner compiled over all of them. It is immutable once stored.
type nameCache struct {
	key     nameKey
	names   map[*Node][]string
	scanner ports.TextScanner
	owners  [][]*Node // pattern index -> nodes having that name
}

// snapshot returns the cache for key, rebuilding it when the stored one was
// built for different options or dropped by a mutation.
func (h *Hierarchy) snapshot(key nameKey) *nameCache {
	if c := h.cache.Load(); c != nil && c.key == key {
		return c
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if c := h.cache.Load(); c != nil && c.key == key {
		return c
	}
	c := h.buildCache(key)
	h.cache.Store(c)
	return c
}

func (h *Hierarchy) buildCache(key nameKey) *nameCache {
	opts := MatchOptions{IgnoreCase: key.ignoreCase, LongestNameFirst: key.longestNameFirst}
	c := &nameCache{key: key, names: make(map[*Node][]string)}
	index := make(map[string]int)
	var patterns []string

	h.root.Walk(func(n *Node) bool {
		names := n.Names(opts)
		c.names[n] = names
		if n == h.root {
			return true
		}
		for _, name := range names {
			idx, ok := index[name]
			if !ok {
				idx = len(patterns)
				index[name] = idx
				patterns = append(patterns, name)
				c.owners = append(c.owners, nil)
			}
			c.owners[idx] = append(c.owners[idx], n)
		}
		return true
	})
	c.scanner = h.newScanner(patterns)
	return c
}

// scan runs the compiled scanner over text (folded when the cache key says so)
// and returns each node's hits in original offsets, sorted by Start and then
// longest first, so a full name at a position is seen before a shorter alias.
func (c *nameCache) scan(text string) map[*Node][]span.Span {
	haystack, offsets := text, []int(nil)
	if c.key.ignoreCase {
		haystack, offsets = foldCase(text)
	}
	hits := make(map[*Node][]span.Span)
	for _, tm := range c.scanner.Scan([]byte(haystack)) {
		if tm.PatternIndex < 0 || tm.PatternIndex >= len(c.owners) {
			continue
		}
		s := toOriginal(tm, offsets)
		for _, n := range c.owners[tm.PatternIndex] {
			hits[n] = append(hits[n], s)
		}
	}
	for _, spans := range hits {
		sort.Slice(spans, func(i, j int) bool {
			if spans[i].Start != spans[j].Start {
				return spans[i].Start < spans[j].Start
			}
			return spans[i].End > spans[j].End
		})
	}
	return hits
}
