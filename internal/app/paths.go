package app

import (
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem layout of the .lexmatch/ project directory.
type Paths struct {
	Root string // .lexmatch/
	DB   string // .lexmatch/lexmatch.db

	LogDir    string // .lexmatch/log/
	DaemonLog string // .lexmatch/log/daemon.log

	RunDir  string // .lexmatch/run/
	PIDFile string // .lexmatch/run/daemon.pid

	LexiconDir string // .lexmatch/lexicons/ (optional project-local lexicons)
}

// NewPaths resolves all paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".lexmatch")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "lexmatch.db"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),

		LexiconDir: filepath.Join(root, "lexicons"),
	}
}

// EnsureDirs creates the runtime subdirectories under .lexmatch/. Idempotent.
// The lexicons/ directory is left to the user.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// HasLocalLexicons reports whether .lexmatch/lexicons/ exists and is a directory.
func (p *Paths) HasLocalLexicons() bool {
	info, err := os.Stat(p.LexiconDir)
	return err == nil && info.IsDir()
}

// CleanEphemeral removes runtime files left by a daemon. Called on clean shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}
