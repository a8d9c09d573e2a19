package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Lexicon hot reload
// =============================================================================

func TestOnLexiconChanged_IgnoresOtherFiles(t *testing.T) {
	dir := writeLexicons(t)
	a := newTestApp(t, Config{LexiconDir: dir})

	a.onLexiconChanged(filepath.Join(dir, "notes.txt"))
	assert.Equal(t, 0, a.Health().Reloads)

	a.onLexiconChanged(filepath.Join(dir, "role.yaml"))
	assert.Equal(t, 1, a.Health().Reloads)
}

func TestDaemon_HotReload(t *testing.T) {
	dir := writeLexicons(t)
	a := newTestApp(t, Config{LexiconDir: dir, Watch: true})
	require.NotNil(t, a.Watcher)
	require.NoError(t, a.Start())

	res, err := a.Match(socket.MatchParams{Text: "Under Secretary", Axes: []string{"role"}})
	require.NoError(t, err)
	assert.Empty(t, res.Records["role"])

	require.NoError(t, os.WriteFile(filepath.Join(dir, "role.yaml"),
		[]byte(roleYAML+"  - name: Under Secretary\n"), 0644))

	assert.Eventually(t, func() bool {
		res, err := a.Match(socket.MatchParams{Text: "Under Secretary", Axes: []string{"role"}})
		return err == nil && len(res.Records["role"]) == 1
	}, 3*time.Second, 25*time.Millisecond, "edited lexicon should be picked up")
}
