// Package lexicon groups several hierarchies into one named set of axes
// (department, role, jurisdiction, ...) and matches text against them.
//
// Usage:
//
//	set, err := lexicon.LoadDir(lexicons.FS, "v1")
//	results, err := set.MatchSequence(nil, text, hierarchy.DefaultMatchOptions())
package lexicon

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/domain/span"
	"github.com/corey/lexmatch/internal/ports"
)

// ErrUnknownAxis is returned when an axis name is not part of the set.
var ErrUnknownAxis = errors.New("unknown axis")

// Extensions lists the file suffixes LoadDir reads, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Set is an ordered collection of hierarchies keyed by axis name.
// A Set is immutable after loading; swap whole sets to reload.
type Set struct {
	axes   []string
	byAxis map[string]*hierarchy.Hierarchy
	files  map[string]string // axis -> source file, "" when added in code
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		byAxis: make(map[string]*hierarchy.Hierarchy),
		files:  make(map[string]string),
	}
}

// Add registers h under axis. Axis names must be unique and non-empty.
func (s *Set) Add(axis string, h *hierarchy.Hierarchy) error {
	if axis == "" {
		return fmt.Errorf("add axis: empty name")
	}
	if _, dup := s.byAxis[axis]; dup {
		return fmt.Errorf("add axis %q: already defined", axis)
	}
	s.axes = append(s.axes, axis)
	s.byAxis[axis] = h
	return nil
}

// IsLexiconFile reports whether name has one of the Extensions.
func IsLexiconFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// AxisName derives the axis from a file name: "v1/department.yaml" -> "department".
func AxisName(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}

// LoadDir reads every lexicon file directly under dir in sorted order and
// parses each into a Hierarchy; opts apply to every one of them.
// Returns an error if any file fails to parse, if two files share an axis
// name, or if no lexicon file is found.
func LoadDir(fsys fs.FS, dir string, opts ...hierarchy.Option) (*Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read lexicon dir %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	s := NewSet()
	for _, entry := range entries {
		if entry.IsDir() || !IsLexiconFile(entry.Name()) {
			continue
		}
		file := path.Join(dir, entry.Name())
		h, err := hierarchy.LoadFS(fsys, file, opts...)
		if err != nil {
			return nil, err
		}
		axis := AxisName(entry.Name())
		if err := s.Add(axis, h); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		s.files[axis] = file
	}

	if len(s.axes) == 0 {
		return nil, fmt.Errorf("lexicon set is empty: no %s files in %q",
			strings.Join(Extensions, "/"), dir)
	}
	return s, nil
}

// Axes returns axis names in load order.
func (s *Set) Axes() []string {
	out := make([]string, len(s.axes))
	copy(out, s.axes)
	return out
}

// Axis returns the hierarchy for name.
func (s *Set) Axis(name string) (*hierarchy.Hierarchy, bool) {
	h, ok := s.byAxis[name]
	return h, ok
}

// File returns the file an axis was loaded from.
func (s *Set) File(axis string) string { return s.files[axis] }

// Match runs FindMatch on one axis.
func (s *Set) Match(axis, text string, opts hierarchy.MatchOptions) ([]*hierarchy.Chain, error) {
	h, ok := s.byAxis[axis]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, axis)
	}
	chains, err := h.FindMatch(text, opts)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", axis, err)
	}
	return chains, nil
}

// AxisResult is the outcome of matching one axis.
type AxisResult struct {
	Axis   string
	Chains []*hierarchy.Chain
}

// MatchSequence matches axes in order against text. Before each axis after the
// first, every range matched by earlier axes (folded with span.Accumulate) is
// blanked out of a private copy of text, so a phrase is attributed to one axis
// only. Offsets stay valid against the original text. An empty axes list means
// every axis in load order.
func (s *Set) MatchSequence(axes []string, text string, opts hierarchy.MatchOptions) ([]AxisResult, error) {
	if len(axes) == 0 {
		axes = s.axes
	}
	ignore := opts.IgnoreChars
	if ignore == "" {
		ignore = span.DefaultIgnoreChars
	}

	working := text
	out := make([]AxisResult, 0, len(axes))
	for _, axis := range axes {
		chains, err := s.Match(axis, working, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, AxisResult{Axis: axis, Chains: chains})

		var matched []span.Span
		for _, c := range chains {
			for _, m := range c.Spans() {
				matched = append(matched, m.Span)
			}
		}
		working = span.Blank(working, span.Accumulate(matched, working, ignore))
	}
	return out, nil
}

// Stats summarizes a set.
type Stats struct {
	Axes    int
	Nodes   int
	Names   int
	PerAxis map[string]hierarchy.Stats
}

// Stats sums hierarchy stats over every axis.
func (s *Set) Stats() Stats {
	st := Stats{Axes: len(s.axes), PerAxis: make(map[string]hierarchy.Stats, len(s.axes))}
	for _, axis := range s.axes {
		hs := s.byAxis[axis].Stats()
		st.PerAxis[axis] = hs
		st.Nodes += hs.Nodes
		st.Names += hs.Names
	}
	return st
}

// Records converts chains to their serializable form. Span text is read from
// text, which must be the string the chains were matched against (or one with
// identical offsets).
func Records(axis, text string, chains []*hierarchy.Chain) []ports.MatchRecord {
	out := make([]ports.MatchRecord, 0, len(chains))
	for _, c := range chains {
		full := c.FullSpan()
		rec := ports.MatchRecord{
			Axis:          axis,
			HierarchyPath: c.HierarchyPath(),
			Leaf:          c.Leaf().Node.Name,
			Root:          c.Root().Node.Name,
			Start:         full.Start,
			End:           full.End,
		}
		for _, m := range c.Spans() {
			rec.Spans = append(rec.Spans, ports.SpanRecord{
				Start: m.Start,
				End:   m.End,
				Node:  m.Node.Name,
				Level: m.Node.Level,
				Text:  m.Text(text),
			})
		}
		out = append(out, rec)
	}
	return out
}

// SequenceRecords flattens MatchSequence output into records per axis.
func SequenceRecords(text string, results []AxisResult) map[string][]ports.MatchRecord {
	out := make(map[string][]ports.MatchRecord, len(results))
	for _, r := range results {
		out[r.Axis] = Records(r.Axis, text, r.Chains)
	}
	return out
}
