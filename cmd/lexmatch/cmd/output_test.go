package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/app"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Output formatting
// =============================================================================

func embeddedMatch(t *testing.T, text string) *socket.MatchResult {
	t.Helper()
	set, err := app.LoadLexicons("", app.HierarchyOptions(hierarchy.PolicyError, nil)...)
	require.NoError(t, err)
	records, err := app.MatchSet(set, socket.MatchParams{Text: text})
	require.NoError(t, err)
	return &socket.MatchResult{Records: records, Count: socket.CountRecords(records), Elapsed: "1ms"}
}

func TestFormatMatch_Plain(t *testing.T) {
	text := "Joint Secretary, Department of Revenue, Ministry of Finance"
	out := formatMatch(text, embeddedMatch(t, text), false)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "⚡ 2 chains │ 2 axes │ 1ms", lines[0])
	assert.Equal(t, "  department [17-59] Government of India > +Ministry of Finance > +Department of Revenue", lines[1])
	assert.Equal(t, `      "Department of Revenue, Ministry of Finance"`, lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "  role [0-15] Officers > Central Secretariat Service > +Joint Secretary"))
	assert.NotContains(t, out, "\033[", "no escape codes without color")
}

func TestFormatMatch_ColorAndSaved(t *testing.T) {
	text := "Cabinet Secretariat"
	res := embeddedMatch(t, text)
	res.Saved = true
	out := formatMatch(text, res, true)
	assert.Contains(t, out, colorCyan+"+Cabinet Secretariat"+colorReset)
	assert.Contains(t, out, "saved")
}

func TestFormatResults_UsesSpanText(t *testing.T) {
	res := &socket.ResultsResult{
		DocID: "memo-1",
		Count: 1,
		Records: map[string][]ports.MatchRecord{
			"department": {{
				HierarchyPath: []string{"Government of India", "+Ministry of Finance", "+Department of Revenue"},
				Start:         0, End: 42,
				Spans: []ports.SpanRecord{
					{Start: 0, End: 21, Text: "Department of Revenue"},
					{Start: 23, End: 42, Text: "Ministry of Finance"},
				},
			}},
		},
	}
	out := formatResults(res, false)
	assert.Contains(t, out, "⚡ memo-1 │ 1 chains")
	assert.Contains(t, out, `"Department of Revenue" + "Ministry of Finance"`)
}

func TestFormatTree(t *testing.T) {
	root := hierarchy.NewNode("Government").Add("ministry",
		hierarchy.NewNode("Ministry of Finance", "Finance Ministry").Add("department",
			hierarchy.NewNode("Department of Revenue"),
		),
		hierarchy.NewNode("Cabinet Secretariat"),
	)
	h, err := hierarchy.New(root)
	require.NoError(t, err)

	want := strings.Join([]string{
		"Government",
		"├── Ministry of Finance  ministry  aka Finance Ministry",
		"│   └── Department of Revenue  department",
		"└── Cabinet Secretariat  ministry",
		"",
	}, "\n")
	assert.Equal(t, want, formatTree(h, false))
}

func TestFormatAxesAndHealth(t *testing.T) {
	axes := formatAxes([]socket.AxisInfo{
		{Name: "role", Root: "Officers", Nodes: 11, Names: 15, MaxDepth: 3, Policy: "error", File: "v1/role.yaml"},
	}, false)
	assert.Contains(t, axes, "⚡ 1 axes")
	assert.Contains(t, axes, "role  Officers  11 nodes, 15 names, depth 3, policy error  v1/role.yaml")

	health := formatHealth(&socket.HealthResult{Status: "degraded", Axes: 2, LastError: "bad.yaml", Uptime: "3s"}, false)
	assert.Contains(t, health, "Status:     degraded")
	assert.Contains(t, health, "Last error: bad.yaml")
}

func TestQuoteRecord_OutOfRangeFallsBack(t *testing.T) {
	rec := ports.MatchRecord{Start: 5, End: 50, Spans: []ports.SpanRecord{{Text: "Director"}}}
	assert.Equal(t, `"Director"`, quoteRecord("short", rec))
	assert.Equal(t, `"ort"`, quoteRecord("short", ports.MatchRecord{Start: 2, End: 5}))
}

// =============================================================================
// Input and exit codes
// =============================================================================

func TestReadText(t *testing.T) {
	got, err := readText([]string{"Ministry of Finance"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "Ministry of Finance", got)

	got, err = readText([]string{"-"}, strings.NewReader("Director\n"))
	require.NoError(t, err)
	assert.Equal(t, "Director", got)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, ExitCode(exitCode{1}))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrapped: %w", exitCode{2})))
	assert.Equal(t, -1, ExitCode(errors.New("plain")))
	assert.Equal(t, "no match", exitCode{1}.Error())
}

func TestIsDBLockError(t *testing.T) {
	assert.True(t, isDBLockError(errors.New("open store: bbolt open: timeout")))
	assert.False(t, isDBLockError(errors.New("permission denied")))
	assert.False(t, isDBLockError(nil))
}
