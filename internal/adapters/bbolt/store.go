// Package bbolt implements the ports.ResultStore interface using bbolt (embedded B+ tree).
// Each document gets its own top-level bucket holding one key per axis; values
// are JSON-encoded match records behind a one-byte format header (see encoding.go).
// Writes are transactional: a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corey/lexmatch/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// keyMeta holds per-document bookkeeping next to the axis keys.
var keyMeta = []byte("\x00meta")

// Compile-time check.
var _ ports.ResultStore = (*Store)(nil)

// Store implements ports.ResultStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.db.Path() }

// docMeta is stored under keyMeta in every document bucket.
type docMeta struct {
	UpdatedAt int64 `json:"updated_at"` // unix seconds of the last save
}

// SaveMatches persists the records for one axis of a document, replacing any
// earlier records for that axis. A nil slice is stored as an empty result.
func (s *Store) SaveMatches(docID, axis string, records []ports.MatchRecord) error {
	return s.SaveDocument(docID, map[string][]ports.MatchRecord{axis: records})
}

// SaveDocument persists the records of several axes of a document in one
// transaction: either every axis is written or none is. Axes not in byAxis are
// left as they were.
func (s *Store) SaveDocument(docID string, byAxis map[string][]ports.MatchRecord) error {
	if docID == "" {
		return fmt.Errorf("save matches: empty document id")
	}
	encoded := make(map[string][]byte, len(byAxis))
	for axis, records := range byAxis {
		if axis == "" || axis == string(keyMeta) {
			return fmt.Errorf("save matches: invalid axis %q", axis)
		}
		if records == nil {
			records = []ports.MatchRecord{}
		}
		data, err := encodeValue(records)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", axis, err)
		}
		encoded[axis] = data
	}
	meta, err := encodeValue(docMeta{UpdatedAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		doc, err := tx.CreateBucketIfNotExists([]byte(docID))
		if err != nil {
			return err
		}
		for axis, data := range encoded {
			if err := doc.Put([]byte(axis), data); err != nil {
				return err
			}
		}
		return doc.Put(keyMeta, meta)
	})
}

// LoadMatches retrieves every stored axis for a document.
// Returns nil, nil if nothing was stored for docID.
func (s *Store) LoadMatches(docID string) (map[string][]ports.MatchRecord, error) {
	raw := make(map[string][]byte)

	err := s.db.View(func(tx *bolt.Tx) error {
		doc := tx.Bucket([]byte(docID))
		if doc == nil {
			return nil
		}
		return doc.ForEach(func(k, v []byte) error {
			if string(k) == string(keyMeta) || v == nil {
				return nil
			}
			// Copy bytes out of the transaction (bbolt slices are only valid within tx)
			buf := make([]byte, len(v))
			copy(buf, v)
			raw[string(k)] = buf
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(map[string][]ports.MatchRecord, len(raw))
	for axis, data := range raw {
		var recs []ports.MatchRecord
		if err := decodeValue(data, &recs); err != nil {
			return nil, fmt.Errorf("unmarshal %s/%s: %w", docID, axis, err)
		}
		out[axis] = recs
	}
	return out, nil
}

// UpdatedAt returns when a document was last written, zero if unknown.
func (s *Store) UpdatedAt(docID string) (time.Time, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		doc := tx.Bucket([]byte(docID))
		if doc == nil {
			return nil
		}
		if v := doc.Get(keyMeta); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return time.Time{}, err
	}
	var meta docMeta
	if err := decodeValue(data, &meta); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal meta: %w", err)
	}
	return time.Unix(meta.UpdatedAt, 0), nil
}

// DeleteDocument removes every axis stored for a document.
// Idempotent: deleting a nonexistent document is not an error.
func (s *Store) DeleteDocument(docID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(docID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		}
		return err
	})
}

// Documents lists stored document IDs in sorted order.
func (s *Store) Documents() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			ids = append(ids, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
