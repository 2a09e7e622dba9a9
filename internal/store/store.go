// Package store persists discovered layouts keyed by an
// order-insensitive fingerprint, with bulk scoring, deletion, and
// streamed range iteration for sharded cleaning.
package store

import (
	"context"
	"errors"
	"iter"

	"github.com/rbscholtus/connecdoku/internal/corpus"
)

// Layout is the eight-label shape a caller wants to persist: four rows,
// four columns, pairwise distinct, order within R and within C not yet
// canonicalized (Fingerprint below canonicalizes it).
type Layout struct {
	Rows [4]corpus.Label
	Cols [4]corpus.Label
}

// StoredLayout is a persisted layout plus its derived key and whatever
// the cleaner/curator have attached to it so far.
type StoredLayout struct {
	Hash       string
	Rows       [4]corpus.Label
	Cols       [4]corpus.Label
	Score      *float64
	WordMatrix *[16]string // nil until a curator commits an assignment
}

// HashRange is a half-open range [Lo, Hi) over hex-encoded fingerprints,
// used to shard a full scan across cleaner workers. An empty Hi means
// "to the end".
type HashRange struct {
	Lo, Hi string
}

// Contains reports whether hash falls in [r.Lo, r.Hi).
func (r HashRange) Contains(hash string) bool {
	if hash < r.Lo {
		return false
	}
	if r.Hi != "" && hash >= r.Hi {
		return false
	}
	return true
}

// InsertResult reports whether Insert created a new row or found an
// existing one with the same fingerprint.
type InsertResult struct {
	Hash      string
	Duplicate bool
}

// ScorePair is one (hash, score) update for UpsertScores.
type ScorePair struct {
	Hash  string
	Score float64
}

// ErrBusy signals transient contention; callers retry with bounded
// exponential backoff (spec.md section 4.4: base 50ms, up to ~3
// attempts per batch). A Store implementation must never sleep itself.
var ErrBusy = errors.New("store: busy, retry")

// ErrFailure signals a non-busy write error; fatal to the enclosing
// chunk but not to the whole run (spec.md section 7).
var ErrFailure = errors.New("store: write failure")

// ErrNotFound is returned by CommitWords when hash has no stored
// layout.
var ErrNotFound = errors.New("store: layout not found")

// Store is the logical schema from spec.md section 4.4, implemented
// today by an in-memory MemStore (tests, offline runs) and a
// MongoDB-backed MongoStore (production).
type Store interface {
	// Insert is idempotent by fingerprint; a successful write is
	// durable and visible to later Scan calls.
	Insert(ctx context.Context, l Layout) (InsertResult, error)
	// Scan streams layouts whose fingerprint falls in r, in ascending
	// fingerprint order.
	Scan(ctx context.Context, r HashRange) iter.Seq2[StoredLayout, error]
	// Delete removes the given fingerprints and returns how many rows
	// were actually deleted.
	Delete(ctx context.Context, hashes []string) (int, error)
	// UpsertScores bulk-updates the score column.
	UpsertScores(ctx context.Context, pairs []ScorePair) error
	// CommitWords attaches a 16-word assignment to an existing layout.
	CommitWords(ctx context.Context, hash string, words [16]string) error
}
