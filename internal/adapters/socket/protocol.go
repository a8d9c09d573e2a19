// Package socket implements a JSON-over-Unix-socket protocol for the lexmatch daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/corey/lexmatch/internal/ports"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/lexmatch-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/lexmatch-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodMatch    = "match"
	MethodAxes     = "axes"
	MethodResults  = "results"
	MethodReload   = "reload"
	MethodHealth   = "health"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// MatchParams is the params for a match request.
type MatchParams struct {
	Text          string   `json:"text"`
	Axes          []string `json:"axes,omitempty"` // empty = every axis
	Sequence      bool     `json:"sequence,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`
	IgnoreChars   string   `json:"ignore_chars,omitempty"`
	DocID         string   `json:"doc_id,omitempty"` // persist the records under this id
}

// MatchResult is the result of a match request.
type MatchResult struct {
	Records map[string][]ports.MatchRecord `json:"records"` // axis -> records
	Count   int                            `json:"count"`
	Saved   bool                           `json:"saved"`
	Elapsed string                         `json:"elapsed"`
}

// AxesResult is the result of an axes request.
type AxesResult struct {
	Axes  []AxisInfo `json:"axes"`
	Count int        `json:"count"`
}

// AxisInfo describes one loaded hierarchy.
type AxisInfo struct {
	Name     string `json:"name"`
	File     string `json:"file,omitempty"`
	Root     string `json:"root"`
	Nodes    int    `json:"nodes"`
	Names    int    `json:"names"`
	MaxDepth int    `json:"max_depth"`
	Policy   string `json:"policy"`
}

// ResultsParams is the params for a results request.
type ResultsParams struct {
	DocID string `json:"doc_id"`
}

// ResultsResult is the result of a results request.
type ResultsResult struct {
	DocID   string                         `json:"doc_id"`
	Records map[string][]ports.MatchRecord `json:"records"`
	Count   int                            `json:"count"`
}

// ReloadResult is the result of a reload request.
type ReloadResult struct {
	Axes      int   `json:"axes"`
	Nodes     int   `json:"nodes"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status    string `json:"status"`
	Axes      int    `json:"axes"`
	Nodes     int    `json:"nodes"`
	Names     int    `json:"names"`
	Documents int    `json:"documents"`
	Reloads   int    `json:"reloads"`
	LastError string `json:"last_error,omitempty"` // last failed reload
	Uptime    string `json:"uptime"`
}

// CountRecords totals records across axes.
func CountRecords(byAxis map[string][]ports.MatchRecord) int {
	n := 0
	for _, recs := range byAxis {
		n += len(recs)
	}
	return n
}
