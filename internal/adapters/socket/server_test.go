package socket

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/corey/lexmatch/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Unix socket daemon: JSON-over-socket protocol for match, axes, results,
// reload, health, shutdown
// =============================================================================

// fakeBackend answers every "match" by reporting each axis name found verbatim.
type fakeBackend struct {
	mu      sync.Mutex
	stored  map[string]map[string][]ports.MatchRecord
	reloads int
	failing bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{stored: make(map[string]map[string][]ports.MatchRecord)}
}

func (f *fakeBackend) Match(p MatchParams) (MatchResult, error) {
	if p.Text == "" {
		return MatchResult{}, errors.New("empty text")
	}
	text := p.Text
	if !p.CaseSensitive {
		text = strings.ToLower(text)
	}
	records := make(map[string][]ports.MatchRecord)
	for _, axis := range []string{"department", "role"} {
		if i := strings.Index(text, axis); i >= 0 {
			records[axis] = []ports.MatchRecord{{Axis: axis, Leaf: axis, Root: axis, Start: i, End: i + len(axis)}}
		}
	}
	res := MatchResult{Records: records, Count: CountRecords(records)}
	if p.DocID != "" {
		f.mu.Lock()
		f.stored[p.DocID] = records
		f.mu.Unlock()
		res.Saved = true
	}
	return res, nil
}

func (f *fakeBackend) Axes() AxesResult {
	return AxesResult{
		Axes: []AxisInfo{
			{Name: "department", Root: "Government of India", Nodes: 12, Names: 20, MaxDepth: 3, Policy: "error"},
			{Name: "role", Root: "Officers", Nodes: 11, Names: 13, MaxDepth: 3, Policy: "error"},
		},
		Count: 2,
	}
}

func (f *fakeBackend) Results(docID string) (ResultsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs, ok := f.stored[docID]
	if !ok {
		return ResultsResult{}, errors.New("no results for " + docID)
	}
	return ResultsResult{DocID: docID, Records: recs, Count: CountRecords(recs)}, nil
}

func (f *fakeBackend) Reload() (ReloadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return ReloadResult{}, errors.New("parse role.yaml: boom")
	}
	f.reloads++
	return ReloadResult{Axes: 2, Nodes: 23}, nil
}

func (f *fakeBackend) Health() HealthResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return HealthResult{Axes: 2, Nodes: 23, Names: 33, Documents: len(f.stored), Reloads: f.reloads}
}

// testSocketPath returns a unique socket path for a test.
func testSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.sock")
}

func startServer(t *testing.T, b Backend) (*Server, *Client) {
	t.Helper()
	sockPath := testSocketPath(t)
	srv := NewServer(b, sockPath)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })
	return srv, NewClient(sockPath)
}

func TestServer_MatchRoundtrip(t *testing.T) {
	_, client := startServer(t, newFakeBackend())

	result, err := client.Match(MatchParams{Text: "Role and Department"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.False(t, result.Saved)
	assert.NotEmpty(t, result.Elapsed)
	require.Len(t, result.Records["role"], 1)
	assert.Equal(t, 0, result.Records["role"][0].Start)
	assert.Equal(t, 9, result.Records["department"][0].Start)

	result, err = client.Match(MatchParams{Text: "Role and Department", CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}

func TestServer_MatchBackendError(t *testing.T) {
	_, client := startServer(t, newFakeBackend())
	_, err := client.Match(MatchParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error: empty text")
}

func TestServer_MatchPersistsAndResults(t *testing.T) {
	_, client := startServer(t, newFakeBackend())

	result, err := client.Match(MatchParams{Text: "role", DocID: "memo-1"})
	require.NoError(t, err)
	assert.True(t, result.Saved)

	stored, err := client.Results("memo-1")
	require.NoError(t, err)
	assert.Equal(t, "memo-1", stored.DocID)
	assert.Equal(t, 1, stored.Count)
	assert.Equal(t, result.Records, stored.Records)

	_, err = client.Results("memo-2")
	assert.Error(t, err)

	_, err = client.Results("")
	assert.ErrorContains(t, err, "invalid results params")
}

func TestServer_Axes(t *testing.T) {
	_, client := startServer(t, newFakeBackend())
	axes, err := client.Axes()
	require.NoError(t, err)
	assert.Equal(t, 2, axes.Count)
	assert.Equal(t, "department", axes.Axes[0].Name)
	assert.Equal(t, "Officers", axes.Axes[1].Root)
}

func TestServer_Reload(t *testing.T) {
	b := newFakeBackend()
	_, client := startServer(t, b)

	res, err := client.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Axes)

	b.mu.Lock()
	b.failing = true
	b.mu.Unlock()
	_, err = client.Reload()
	assert.ErrorContains(t, err, "boom")

	health, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, 1, health.Reloads)
}

func TestServer_Health(t *testing.T) {
	_, client := startServer(t, newFakeBackend())

	health, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 2, health.Axes)
	assert.Equal(t, 23, health.Nodes)
	assert.NotEmpty(t, health.Uptime)
}

func TestServer_UnknownMethod(t *testing.T) {
	_, client := startServer(t, newFakeBackend())
	_, err := client.call(Request{ID: "7", Method: "search"})
	assert.ErrorContains(t, err, "unknown method: search")
}

func TestServer_Shutdown(t *testing.T) {
	sockPath := testSocketPath(t)
	srv := NewServer(newFakeBackend(), sockPath)
	require.NoError(t, srv.Start())

	client := NewClient(sockPath)
	assert.True(t, client.Ping())

	// Send shutdown request: this closes shutdownCh (signals the daemon).
	require.NoError(t, client.Shutdown())

	select {
	case <-srv.ShutdownCh():
	default:
		t.Fatal("ShutdownCh should be closed after Shutdown request")
	}

	// The daemon is responsible for calling Stop() after receiving the signal.
	srv.Stop()

	_, err := os.Stat(sockPath)
	assert.True(t, os.IsNotExist(err), "socket file should be removed after shutdown")
	assert.False(t, client.Ping())
}

func TestServer_ConcurrentClients(t *testing.T) {
	srv, _ := startServer(t, newFakeBackend())

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	// 10 clients x 10 requests each
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := NewClient(srv.Addr())
			for j := 0; j < 10; j++ {
				result, err := client.Match(MatchParams{Text: "department"})
				if err != nil {
					errs <- err
					return
				}
				if result.Count != 1 {
					errs <- assert.AnError
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent client error: %v", err)
	}
}

func TestServer_StaleSocket(t *testing.T) {
	sockPath := testSocketPath(t)

	// Create a stale socket file (not a real listener)
	require.NoError(t, os.WriteFile(sockPath, []byte("stale"), 0600))

	srv := NewServer(newFakeBackend(), sockPath)
	require.NoError(t, srv.Start(), "should replace stale socket")
	defer srv.Stop()

	health, err := NewClient(sockPath).Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestServer_AlreadyRunning(t *testing.T) {
	srv, _ := startServer(t, newFakeBackend())
	second := NewServer(newFakeBackend(), srv.Addr())
	assert.ErrorContains(t, second.Start(), "daemon already running")
}

func TestSocketPath_StablePerRoot(t *testing.T) {
	a := SocketPath("/srv/project")
	assert.Equal(t, a, SocketPath("/srv/project"))
	assert.NotEqual(t, a, SocketPath("/srv/other"))
	assert.True(t, strings.HasPrefix(a, "/tmp/lexmatch-"))
	assert.True(t, strings.HasSuffix(a, ".sock"))
}
