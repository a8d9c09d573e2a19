package app

import (
	"path/filepath"

	"github.com/corey/lexmatch/internal/domain/lexicon"
)

// onLexiconChanged handles a debounced create/modify/delete/rename of a file
// in the lexicon directory by reloading the whole set. A file that no longer
// parses leaves the previous set in place (see Reload).
func (a *App) onLexiconChanged(absPath string) {
	if !lexicon.IsLexiconFile(absPath) {
		return
	}
	a.logger.Debug("lexicon changed", "file", filepath.Base(absPath))
	// Reload logs its own outcome.
	_, _ = a.Reload()
}
