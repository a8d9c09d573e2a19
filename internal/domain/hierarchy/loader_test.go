package hierarchy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const govYAML = `
name: Government of India
expand_names:
  - old: Govt
    new: Government
ministry:
  - name: Ministry of Home Affairs
    alias: [MHA, Home Ministry]
    orgCode: MHA-01
    department:
      - name: Department of Official Language
        alias: DOL
        direct: true
      - name: Department of Border Management
  - name: Ministry of Finance
    expand_names:
      - [Dept, Department]
    department:
      - name: Dept of Revenue
        description: tax collection
      - name: Govt Dept of Expenditure
  - name: Cabinet Secretariat
    cell:
`

func TestParse_BuildsTree(t *testing.T) {
	h, err := Parse([]byte(govYAML))
	require.NoError(t, err)

	root := h.Root()
	assert.Equal(t, "Government of India", root.Name)
	assert.Equal(t, "", root.Level)
	require.Len(t, root.Children, 3)

	mha := root.Children[0]
	assert.Equal(t, "ministry", mha.Level)
	assert.Equal(t, "MHA-01", mha.Info["orgCode"])
	require.Len(t, mha.Children, 2)
	assert.Equal(t, "department", mha.Children[0].Level)
	assert.Equal(t, []string{"DOL"}, mha.Children[0].Alias)
	assert.Equal(t, true, mha.Children[0].Info["direct"])
	assert.Equal(t, []string{"Government of India", "Ministry of Home Affairs"}, mha.Children[1].HierarchyPath)

	cab := root.Children[2]
	assert.True(t, cab.IsLeaf(), "null child group is empty")
}

func TestParse_AppliesExpandNamesToSubtree(t *testing.T) {
	h, err := Parse([]byte(govYAML))
	require.NoError(t, err)

	rev := h.Find("Dept of Revenue")
	require.Len(t, rev, 1)
	assert.Equal(t, []string{"Department of Revenue"}, rev[0].Alias)
	assert.Equal(t, "tax collection", rev[0].Info["description"])

	// Root rule runs first, then the Finance rule over both forms.
	exp := h.Find("Govt Dept of Expenditure")
	require.Len(t, exp, 1)
	assert.Equal(t, []string{
		"Government Dept of Expenditure",
		"Govt Department of Expenditure",
		"Government Department of Expenditure",
	}, exp[0].Alias)

	// Dept rule is scoped to Finance: Home Affairs names are untouched.
	assert.Equal(t, []string{"MHA", "Home Ministry"}, h.Find("Ministry of Home Affairs")[0].Alias)

	assert.Equal(t, []ExpandRule{
		{Old: "Govt", New: "Government"},
		{Old: "Dept", New: "Department"},
	}, h.Rules())

	chains, err := h.Match("Department of Revenue, Ministry of Finance")
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"Government of India", "+Ministry of Finance", "+Dept of Revenue"}, chains[0].HierarchyPath())
}

func TestParse_JSON(t *testing.T) {
	doc := `{"name": "Root", "unit": [{"name": "Cell", "alias": ["C1"]}]}`
	h, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, h.Root().Children, 1)
	assert.Equal(t, "unit", h.Root().Children[0].Level)
	assert.Equal(t, []string{"C1"}, h.Root().Children[0].Alias)
}

func TestParse_YAMLAnchors(t *testing.T) {
	doc := `
name: Root
unit:
  - &cell {name: Cell, alias: [C]}
  - *cell
`
	h, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, h.Root().Children, 2)
	assert.NotSame(t, h.Root().Children[0], h.Root().Children[1], "each alias use is its own node")
	assert.Equal(t, []string{"C"}, h.Root().Children[1].Alias)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		msg  string
	}{
		{"empty", "", "$", "empty document"},
		{"scalar root", "hello", "$", "node must be a mapping"},
		{"missing root name", "ministry: []", "$", "missing name"},
		{"blank name", "name: '  '", "$", "name must be a non-empty string"},
		{"null name", "name: ~", "$", "name must be a non-empty string"},
		{"integer name", "name: 123", "$", "name must be a non-empty string"},
		{"bool name", "name: true", "$", "name must be a non-empty string"},
		{"float child name", "name: R\nministry:\n  - name: 4.5", "$.ministry[0]", "name must be a non-empty string"},
		{"list name", "name: [a, b]", "$", "name must be a non-empty string"},
		{"two child groups", "name: R\nministry: []\nboard: []", "$", "more than one child group"},
		{"group not a list", "name: R\nministry: {name: X}", "$", `child group "ministry" must be a list`},
		{"nested missing name", "name: R\nministry:\n  - name: A\n  - name: B\n    department:\n      - alias: x", "$.ministry[1].department[0]", "missing name"},
		{"alias wrong type", "name: R\nalias: {a: b}", "$", "alias"},
		{"alias empty entry", "name: R\nalias: [a, '']", "$", "entries must be non-empty strings"},
		{"expand not a list", "name: R\nexpand_names: {old: a, new: b}", "$", "must be a list of rules"},
		{"expand bad pair", "name: R\nexpand_names: [[a, b, c]]", "$", "pair must be [old, new]"},
		{"expand empty old", "name: R\nexpand_names: [{old: '', new: b}]", "$", "old must be non-empty"},
		{"syntax", "name: [unterminated", "$", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Parse([]byte(tt.doc))
			assert.Nil(t, h)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.path, cfgErr.Path)
			assert.Contains(t, cfgErr.Msg, tt.msg)
		})
	}
}

func TestParse_QuotedNumericName(t *testing.T) {
	h, err := Parse([]byte("name: '123'\nunit:\n  - {\"name\": \"4.5\"}"))
	require.NoError(t, err)
	assert.Equal(t, "123", h.Root().Name)
	assert.Len(t, h.Find("4.5"), 1)
}

func TestParse_ErrorCarriesLine(t *testing.T) {
	doc := "name: R\nministry:\n  - name: A\n  - name: B\n    x: []\n    y: []\n"
	_, err := Parse([]byte(doc))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "$.ministry[1]", cfgErr.Path)
	assert.Equal(t, 6, cfgErr.Line)
	assert.Contains(t, err.Error(), "(line 6)")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gov.yaml")
	require.NoError(t, os.WriteFile(path, []byte(govYAML), 0644))

	h, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Government of India", h.Root().Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: R\na: []\nb: []"), 0644))
	_, err = LoadFile(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestLoadFS_PassesOptions(t *testing.T) {
	fsys := fstest.MapFS{"lex/gov.yaml": {Data: []byte(govYAML)}}
	h, err := LoadFS(fsys, "lex/gov.yaml", WithAmbiguityPolicy(PolicyLongest))
	require.NoError(t, err)
	assert.Equal(t, PolicyLongest, h.Policy())
}

func TestIsReservedKey(t *testing.T) {
	for _, k := range []string{"name", "alias", "expand_names", "direct", "overlap", "description", "orgCode"} {
		assert.True(t, IsReservedKey(k), k)
	}
	assert.False(t, IsReservedKey("ministry"))
}
