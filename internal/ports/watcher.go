package ports

// Watcher monitors a lexicon directory for changes and triggers a reload.
// The adapter (fsnotify) must filter out editor swap files and other noise
// before invoking onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring the files directly under dir. onChange is called with
	// the absolute path of each changed file. The callback may be invoked from
	// any goroutine. Returns an error if the directory doesn't exist or
	// permissions are insufficient.
	Watch(dir string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. Callbacks still
	// pending are dropped. Safe to call multiple times.
	Stop() error
}
