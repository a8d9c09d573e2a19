// Package app wires the lexmatch daemon together: lexicon set, result store,
// lexicon watcher and socket server. It implements socket.Backend.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/corey/lexmatch/internal/adapters/bbolt"
	fsw "github.com/corey/lexmatch/internal/adapters/fsnotify"
	"github.com/corey/lexmatch/internal/adapters/socket"
	"github.com/corey/lexmatch/internal/domain/hierarchy"
	"github.com/corey/lexmatch/internal/domain/lexicon"
	"github.com/corey/lexmatch/internal/ports"
)

// ErrNoResults is returned by Results for a document with nothing stored.
var ErrNoResults = errors.New("no stored results")

// Config holds the daemon configuration. Zero values are filled in by New.
type Config struct {
	ProjectRoot string
	LexiconDir  string // "" = .lexmatch/lexicons/ if present, else the embedded set
	DBPath      string // default .lexmatch/lexmatch.db
	SocketPath  string // default socket.SocketPath(ProjectRoot)
	Policy      hierarchy.AmbiguityPolicy
	Watch       bool // reload when lexicon files change; ignored for the embedded set
	Logger      *log.Logger
}

// NewLogger returns the logger the daemon and CLI share, writing to w.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "lexmatch",
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// App is the lexmatch daemon.
type App struct {
	ProjectRoot string
	LexiconDir  string
	Paths       *Paths

	Store   ports.ResultStore
	Watcher ports.Watcher // nil unless watching a lexicon directory
	Server  *socket.Server

	logger *log.Logger
	policy hierarchy.AmbiguityPolicy
	dbPath string

	set atomic.Pointer[lexicon.Set]

	mu      sync.Mutex // serializes reloads; guards the counters below
	reloads int
	lastErr string
}

// New opens the result store, loads the lexicon set and prepares the socket
// server. Nothing is served until Start.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	paths := NewPaths(cfg.ProjectRoot)
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = socket.SocketPath(cfg.ProjectRoot)
	}
	if cfg.Logger == nil {
		cfg.Logger = NewLogger(os.Stderr, false)
	}

	a := &App{
		ProjectRoot: cfg.ProjectRoot,
		LexiconDir:  ResolveLexiconDir(cfg.ProjectRoot, cfg.LexiconDir),
		Paths:       paths,
		logger:      cfg.Logger,
		policy:      cfg.Policy,
		dbPath:      cfg.DBPath,
	}

	set, err := a.loadSet()
	if err != nil {
		return nil, fmt.Errorf("load lexicons: %w", err)
	}
	a.set.Store(set)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = store

	if cfg.Watch && a.LexiconDir != "" {
		w, err := fsw.NewWatcher(fsw.WithFilter(lexicon.IsLexiconFile))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		a.Watcher = w
	}

	a.Server = socket.NewServer(a, cfg.SocketPath)
	return a, nil
}

func (a *App) loadSet() (*lexicon.Set, error) {
	return LoadLexicons(a.LexiconDir, HierarchyOptions(a.policy, a.logger)...)
}

// Set returns the lexicon set currently in use.
func (a *App) Set() *lexicon.Set { return a.set.Load() }

// DBPath returns the result store location.
func (a *App) DBPath() string { return a.dbPath }

// Start begins serving the socket and, when configured, watching lexicons.
func (a *App) Start() error {
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	// Watching is best effort; the daemon still serves the loaded set.
	if a.Watcher != nil {
		if err := a.Watcher.Watch(a.LexiconDir, a.onLexiconChanged); err != nil {
			a.logger.Warn("lexicon watcher unavailable", "dir", a.LexiconDir, "error", err)
		} else {
			a.logger.Info("watching lexicons", "dir", a.LexiconDir)
		}
	}
	st := a.Set().Stats()
	a.logger.Info("daemon started", "socket", a.Server.Addr(), "axes", st.Axes, "nodes", st.Nodes)
	return nil
}

// Stop shuts down the watcher and server and closes the store.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	a.Server.Stop()
	if c, ok := a.Store.(interface{ Close() error }); ok {
		c.Close()
	}
	a.logger.Info("daemon stopped")
	return nil
}

// Match implements socket.Backend. When params.DocID is set every matched
// axis is persisted in one transaction.
func (a *App) Match(params socket.MatchParams) (socket.MatchResult, error) {
	records, err := MatchSet(a.Set(), params)
	if err != nil {
		return socket.MatchResult{}, err
	}
	res := socket.MatchResult{Records: records, Count: socket.CountRecords(records)}
	if params.DocID != "" {
		if err := a.Store.SaveDocument(params.DocID, records); err != nil {
			return res, fmt.Errorf("save %s: %w", params.DocID, err)
		}
		res.Saved = true
	}
	a.logger.Debug("match", "chars", len(params.Text), "records", res.Count, "doc", params.DocID)
	return res, nil
}

// Axes implements socket.Backend.
func (a *App) Axes() socket.AxesResult {
	infos := AxisInfos(a.Set())
	return socket.AxesResult{Axes: infos, Count: len(infos)}
}

// Results implements socket.Backend.
func (a *App) Results(docID string) (socket.ResultsResult, error) {
	records, err := a.Store.LoadMatches(docID)
	if err != nil {
		return socket.ResultsResult{}, err
	}
	if records == nil {
		return socket.ResultsResult{}, fmt.Errorf("%w for %q", ErrNoResults, docID)
	}
	return socket.ResultsResult{DocID: docID, Records: records, Count: socket.CountRecords(records)}, nil
}

// Reload implements socket.Backend. The new set replaces the old one only if
// every file loads; otherwise the old set stays and the error is recorded.
func (a *App) Reload() (socket.ReloadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	set, err := a.loadSet()
	if err != nil {
		a.lastErr = err.Error()
		a.logger.Error("reload failed, keeping previous lexicons", "error", err)
		return socket.ReloadResult{}, fmt.Errorf("reload: %w", err)
	}
	a.set.Store(set)
	a.reloads++
	a.lastErr = ""

	st := set.Stats()
	elapsed := time.Since(start)
	a.logger.Info("lexicons reloaded", "axes", st.Axes, "nodes", st.Nodes, "elapsed", elapsed)
	return socket.ReloadResult{Axes: st.Axes, Nodes: st.Nodes, ElapsedMs: elapsed.Milliseconds()}, nil
}

// Health implements socket.Backend.
func (a *App) Health() socket.HealthResult {
	st := a.Set().Stats()
	docs, err := a.Store.Documents()
	if err != nil {
		a.logger.Warn("list documents", "error", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	res := socket.HealthResult{
		Status:    "ok",
		Axes:      st.Axes,
		Nodes:     st.Nodes,
		Names:     st.Names,
		Documents: len(docs),
		Reloads:   a.reloads,
		LastError: a.lastErr,
	}
	if a.lastErr != "" {
		res.Status = "degraded"
	}
	return res
}
