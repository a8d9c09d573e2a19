// Package lexicons embeds the default hierarchy files, one per axis.
// The file base name is the axis name.
//
// Usage:
//
//	lexicon.LoadDir(lexicons.FS, lexicons.Dir)
package lexicons

import "embed"

// Dir is the embedded directory holding the default axes.
const Dir = "v1"

//go:embed v1/*.yaml
var FS embed.FS
