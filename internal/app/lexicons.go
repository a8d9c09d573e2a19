package app

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/corey/lexmatch/internal/adapters/ahocorasick"
	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/domain/lexicon"
	"github.com/corey/lexmatch/internal/ports"
	"github.com/corey/lexmatch/lexicons"
)

// ResolveLexiconDir picks the lexicon directory for a project: an explicit dir
// wins, then .lexmatch/lexicons/ when it exists. "" means the embedded set.
func ResolveLexiconDir(projectRoot, dir string) string {
	if dir != "" {
		return dir
	}
	if p := NewPaths(projectRoot); p.HasLocalLexicons() {
		return p.LexiconDir
	}
	return ""
}

// HierarchyOptions returns the options every loaded hierarchy gets: the
// Aho-Corasick scanner, the ambiguity policy, and a hook that logs each
// ambiguous adjoin at warn level. logger may be nil.
func HierarchyOptions(policy hierarchy.AmbiguityPolicy, logger *log.Logger) []hierarchy.Option {
	opts := []hierarchy.Option{
		hierarchy.WithScanner(ahocorasick.Builder),
		hierarchy.WithAmbiguityPolicy(policy),
	}
	if logger != nil {
		opts = append(opts, hierarchy.WithAmbiguityHook(func(e *hierarchy.AmbiguousAdjoinError) {
			logger.Warn("ambiguous adjoin",
				"node", e.Match.Node.Name,
				"start", e.Match.Start,
				"end", e.Match.End,
				"candidates", len(e.Candidates),
				"policy", policy)
		}))
	}
	return opts
}

// LoadLexicons loads every lexicon file in dir, or the embedded set when dir is "".
func LoadLexicons(dir string, opts ...hierarchy.Option) (*lexicon.Set, error) {
	if dir == "" {
		return lexicon.LoadDir(lexicons.FS, lexicons.Dir, opts...)
	}
	return lexicon.LoadDir(os.DirFS(dir), ".", opts...)
}

// MatchOptions maps request flags onto hierarchy match options.
func MatchOptions(p socket.MatchParams) hierarchy.MatchOptions {
	opts := hierarchy.DefaultMatchOptions()
	opts.IgnoreCase = !p.CaseSensitive
	if p.IgnoreChars != "" {
		opts.IgnoreChars = p.IgnoreChars
	}
	return opts
}

// MatchSet runs one match request against set and returns records per axis.
// In sequence mode axes are matched in order with earlier matches blanked out;
// otherwise every axis sees the whole text. Empty p.Axes means every axis.
// The daemon and the CLI's local mode both go through here.
func MatchSet(set *lexicon.Set, p socket.MatchParams) (map[string][]ports.MatchRecord, error) {
	opts := MatchOptions(p)
	if p.Sequence {
		results, err := set.MatchSequence(p.Axes, p.Text, opts)
		if err != nil {
			return nil, err
		}
		return lexicon.SequenceRecords(p.Text, results), nil
	}

	axes := p.Axes
	if len(axes) == 0 {
		axes = set.Axes()
	}
	out := make(map[string][]ports.MatchRecord, len(axes))
	for _, axis := range axes {
		chains, err := set.Match(axis, p.Text, opts)
		if err != nil {
			return nil, err
		}
		out[axis] = lexicon.Records(axis, p.Text, chains)
	}
	return out, nil
}

// AxisInfos describes every axis of set for the axes method and `lexmatch tree`.
func AxisInfos(set *lexicon.Set) []socket.AxisInfo {
	out := make([]socket.AxisInfo, 0, len(set.Axes()))
	for _, axis := range set.Axes() {
		h, _ := set.Axis(axis)
		st := h.Stats()
		out = append(out, socket.AxisInfo{
			Name:     axis,
			File:     set.File(axis),
			Root:     h.Root().Name,
			Nodes:    st.Nodes,
			Names:    st.Names,
			MaxDepth: st.MaxDepth,
			Policy:   h.Policy().String(),
		})
	}
	return out
}
