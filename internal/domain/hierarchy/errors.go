package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid hierarchy config")

// ErrAmbiguousAdjoin is wrapped by every AmbiguousAdjoinError.
var ErrAmbiguousAdjoin = errors.New("ambiguous adjoin")

// ConfigError reports a malformed hierarchy definition. Path locates the
// offending node ("$" is the root, "$.ministry[1].department[0]" a descendant);
// Line is the 1-based source line when known.
type ConfigError struct {
	Path string
	Line int
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// AmbiguousAdjoinError is returned when one node match adjoins more than one
// chain built from its subtrees, e.g. two sibling departments both written
// right next to the same ministry mention. Candidates are snapshots taken at
// the moment the ambiguity was found.
type AmbiguousAdjoinError struct {
	Match      Match
	Candidates []*Chain
}

func (e *AmbiguousAdjoinError) Error() string {
	paths := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		paths[i] = c.String()
	}
	return fmt.Sprintf("%s: %q at [%d,%d) adjoins %d chains: %s",
		ErrAmbiguousAdjoin, e.Match.Node.Name, e.Match.Start, e.Match.End,
		len(e.Candidates), strings.Join(paths, "; "))
}

func (e *AmbiguousAdjoinError) Unwrap() error { return ErrAmbiguousAdjoin }

// AmbiguityPolicy decides what the path builder does with an ambiguous adjoin.
type AmbiguityPolicy int

const (
	// PolicyError aborts the match and returns *AmbiguousAdjoinError.
	PolicyError AmbiguityPolicy = iota
	// PolicyFirst extends the earliest-discovered candidate chain.
	PolicyFirst
	// PolicyLongest extends the candidate with the largest extent; ties go to the earliest.
	PolicyLongest
)

var policyNames = map[AmbiguityPolicy]string{
	PolicyError:   "error",
	PolicyFirst:   "first",
	PolicyLongest: "longest",
}

func (p AmbiguityPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("AmbiguityPolicy(%d)", int(p))
}

// ParsePolicy maps "error", "first" or "longest" to a policy.
func ParsePolicy(s string) (AmbiguityPolicy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return PolicyError, fmt.Errorf("unknown ambiguity policy %q (want error, first or longest)", s)
}
