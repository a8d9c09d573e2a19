package ports

// ResultStore persists match results per document and hierarchy axis.
// The backing store (bbolt) keeps one namespace per document. Concurrent reads
// are safe; writes are serialized by the adapter.
//
// Crash safety: saves must be transactional. A crash mid-write must not
// corrupt previously committed results.
type ResultStore interface {
	// SaveMatches persists the records found for one axis of a document.
	// Overwrites any prior records for this (docID, axis).
	SaveMatches(docID, axis string, records []MatchRecord) error

	// SaveDocument persists several axes of a document atomically: every
	// axis in byAxis is written or none is. Other stored axes are untouched.
	SaveDocument(docID string, byAxis map[string][]MatchRecord) error

	// LoadMatches retrieves all stored axes for a document.
	// Returns nil, nil if nothing was stored for docID.
	LoadMatches(docID string) (map[string][]MatchRecord, error)

	// DeleteDocument removes every axis stored for a document.
	// Idempotent: deleting an unknown document is not an error.
	DeleteDocument(docID string) error

	// Documents lists stored document IDs in sorted order.
	Documents() ([]string, error)
}

// MatchRecord is the serializable form of one surviving match chain.
type MatchRecord struct {
	Axis          string       `json:"axis"`
	HierarchyPath []string     `json:"hierarchy_path"` // "+"-prefixed levels were confirmed in text
	Leaf          string       `json:"leaf"`
	Root          string       `json:"root"`
	Start         int          `json:"start"`
	End           int          `json:"end"`
	Spans         []SpanRecord `json:"spans"`
}

// SpanRecord is one matched occurrence inside a MatchRecord.
type SpanRecord struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Node  string `json:"node"`            // canonical node name
	Level string `json:"level,omitempty"` // tier label, e.g. "department"
	Text  string `json:"text"`            // original text under the span
}
