package lexicon

import (
	"testing"
	"testing/fstest"

	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/lexicons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"lex/dept.yaml": {Data: []byte(`
name: Org
unit:
  - name: Finance
  - name: Audit
`)},
		"lex/role.yml": {Data: []byte(`
name: Roles
post:
  - name: Finance Officer
  - name: Officer
`)},
		"lex/notes.txt":   {Data: []byte("not a lexicon")},
		"lex/sub/x.yaml":  {Data: []byte("name: Nested")},
		"dup/role.yaml":   {Data: []byte("name: A")},
		"dup/role.json":   {Data: []byte(`{"name": "B"}`)},
		"empty/readme.md": {Data: []byte("nothing here")},
		"bad/axis.yaml":   {Data: []byte("name: R\na: []\nb: []")},
	}
}

func loadTest(t *testing.T) *Set {
	t.Helper()
	s, err := LoadDir(testFS(), "lex")
	require.NoError(t, err)
	return s
}

// =============================================================================
// Loading
// =============================================================================

func TestLoadDir_SortedAxesFromFileNames(t *testing.T) {
	s := loadTest(t)
	assert.Equal(t, []string{"dept", "role"}, s.Axes())
	assert.Equal(t, "lex/role.yml", s.File("role"))

	h, ok := s.Axis("dept")
	require.True(t, ok)
	assert.Equal(t, "Org", h.Root().Name)

	_, ok = s.Axis("sub")
	assert.False(t, ok, "subdirectories are not read")
}

func TestLoadDir_Errors(t *testing.T) {
	fsys := testFS()

	_, err := LoadDir(fsys, "dup")
	assert.ErrorContains(t, err, `"role": already defined`)

	_, err = LoadDir(fsys, "empty")
	assert.ErrorContains(t, err, "lexicon set is empty")

	_, err = LoadDir(fsys, "bad")
	assert.ErrorIs(t, err, hierarchy.ErrInvalidConfig)

	_, err = LoadDir(fsys, "missing")
	assert.Error(t, err)
}

func TestLoadDir_PassesOptions(t *testing.T) {
	s, err := LoadDir(testFS(), "lex", hierarchy.WithAmbiguityPolicy(hierarchy.PolicyFirst))
	require.NoError(t, err)
	h, _ := s.Axis("role")
	assert.Equal(t, hierarchy.PolicyFirst, h.Policy())
}

func TestAxisName(t *testing.T) {
	assert.Equal(t, "department", AxisName("v1/department.yaml"))
	assert.Equal(t, "role", AxisName("role.json"))
	assert.True(t, IsLexiconFile("x.YML"))
	assert.False(t, IsLexiconFile("x.txt"))
}

func TestAdd_RejectsDuplicatesAndEmpty(t *testing.T) {
	h, err := hierarchy.New(hierarchy.NewNode("R"))
	require.NoError(t, err)

	s := NewSet()
	require.NoError(t, s.Add("a", h))
	assert.Error(t, s.Add("a", h))
	assert.Error(t, s.Add("", h))
	assert.Equal(t, []string{"a"}, s.Axes())
}

// =============================================================================
// Matching
// =============================================================================

func TestMatch_UnknownAxis(t *testing.T) {
	_, err := loadTest(t).Match("nope", "text", hierarchy.DefaultMatchOptions())
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestMatch_SingleAxisSeesWholeText(t *testing.T) {
	chains, err := loadTest(t).Match("role", "Finance Officer", hierarchy.DefaultMatchOptions())
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, "Finance Officer", chains[0].Leaf().Node.Name)
}

func TestMatchSequence_BlanksEarlierAxes(t *testing.T) {
	s := loadTest(t)
	text := "Finance Officer"

	res, err := s.MatchSequence(nil, text, hierarchy.DefaultMatchOptions())
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, "dept", res[0].Axis)
	require.Len(t, res[0].Chains, 1)
	assert.Equal(t, "Finance", res[0].Chains[0].Leaf().Node.Name)

	// "Finance" is gone by the time roles are matched.
	assert.Equal(t, "role", res[1].Axis)
	require.Len(t, res[1].Chains, 1)
	assert.Equal(t, "Officer", res[1].Chains[0].Leaf().Node.Name)
	assert.Equal(t, 8, res[1].Chains[0].FullSpan().Start, "offsets index the original text")
}

func TestMatchSequence_OrderMatters(t *testing.T) {
	res, err := loadTest(t).MatchSequence([]string{"role", "dept"}, "Finance Officer", hierarchy.DefaultMatchOptions())
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Len(t, res[0].Chains, 1)
	assert.Equal(t, "Finance Officer", res[0].Chains[0].Leaf().Node.Name)
	assert.Empty(t, res[1].Chains)
}

func TestMatchSequence_UnknownAxis(t *testing.T) {
	_, err := loadTest(t).MatchSequence([]string{"dept", "nope"}, "x", hierarchy.DefaultMatchOptions())
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestRecords(t *testing.T) {
	s := loadTest(t)
	text := "Finance Officer"
	res, err := s.MatchSequence(nil, text, hierarchy.DefaultMatchOptions())
	require.NoError(t, err)

	recs := SequenceRecords(text, res)
	require.Len(t, recs["role"], 1)
	r := recs["role"][0]
	assert.Equal(t, "role", r.Axis)
	assert.Equal(t, []string{"Roles", "+Officer"}, r.HierarchyPath)
	assert.Equal(t, "Officer", r.Leaf)
	assert.Equal(t, "Officer", r.Root)
	assert.Equal(t, 8, r.Start)
	assert.Equal(t, 15, r.End)
	require.Len(t, r.Spans, 1)
	assert.Equal(t, "Officer", r.Spans[0].Text)
	assert.Equal(t, "post", r.Spans[0].Level)

	assert.Empty(t, Records("x", text, nil))
}

func TestStats(t *testing.T) {
	st := loadTest(t).Stats()
	assert.Equal(t, 2, st.Axes)
	assert.Equal(t, 6, st.Nodes)
	assert.Equal(t, 4, st.Names)
	assert.Equal(t, 3, st.PerAxis["dept"].Nodes)
}

// =============================================================================
// Embedded default lexicons
// =============================================================================

func TestEmbeddedLexicons(t *testing.T) {
	s, err := LoadDir(lexicons.FS, lexicons.Dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"department", "role"}, s.Axes())

	text := "Joint Secretary, Department of Revenue, Ministry of Finance"
	res, err := s.MatchSequence(nil, text, hierarchy.DefaultMatchOptions())
	require.NoError(t, err)
	recs := SequenceRecords(text, res)

	require.Len(t, recs["department"], 1)
	assert.Equal(t, []string{"Government of India", "+Ministry of Finance", "+Department of Revenue"},
		recs["department"][0].HierarchyPath)

	require.Len(t, recs["role"], 1)
	assert.Equal(t, []string{"Officers", "Central Secretariat Service", "+Joint Secretary"},
		recs["role"][0].HierarchyPath)
}

func TestEmbeddedLexicons_ExpandedAlias(t *testing.T) {
	s, err := LoadDir(lexicons.FS, lexicons.Dir)
	require.NoError(t, err)

	chains, err := s.Match("department", "Dept. of Expenditure", hierarchy.DefaultMatchOptions())
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, "Department of Expenditure", chains[0].Leaf().Node.Name)
}
