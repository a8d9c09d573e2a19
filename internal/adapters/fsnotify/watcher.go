// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches one lexicon directory (not recursively), filters out editor
// droppings and non-lexicon files, and debounces bursts of events: editors often
// write a file several times per save, and a reload should only see the last one.
package fsnotify

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/corey/lexmatch/internal/ports"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// File names and suffixes that never trigger onChange.
var ignoreSuffixes = []string{
	".DS_Store",
	".swp",
	".swx",
	".tmp",
	"~",
}

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	filter   func(path string) bool
	debounce time.Duration

	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	timers  map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter restricts onChange to paths for which keep returns true.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) { w.filter = keep }
}

// WithDebounce sets the quiet interval. Zero fires on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring dir. onChange is called with the absolute path of
// each changed file once its events have settled.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(absPath); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if shouldIgnorePath(event.Name) {
					continue
				}
				if w.filter != nil && !w.filter(event.Name) {
					continue
				}
				w.schedule(event.Name, onChange)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed: fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)starts the quiet timer for path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	if w.debounce <= 0 {
		onChange(path)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// Stop ends monitoring and releases all resources. Pending callbacks are dropped.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".#") {
		return true
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
