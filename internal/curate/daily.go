package curate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/ids"
)

// DailyRecord is one committed puzzle: the layout it came from plus the
// 16-word assignment a human curator picked for it. Append-only, never
// updated or deleted, grounded on the ordering guarantees spec.md
// section 4.6 requires for the "previously committed" tallies below.
type DailyRecord struct {
	ID          string          `json:"id"`
	Hash        string          `json:"hash"`
	Rows        [4]corpus.Label `json:"rows"`
	Cols        [4]corpus.Label `json:"cols"`
	Words       [16]string      `json:"words"`
	CommittedAt time.Time       `json:"committed_at"`
}

// DailyStore is the append-only log of committed puzzles backing the
// word/label frequency tallies curation needs.
type DailyStore interface {
	Append(r DailyRecord) error
	All() ([]DailyRecord, error)
}

// FileDailyStore persists DailyRecords as one JSON object per line in a
// single file, matching the on-disk layout spec.md section 6 names
// (daily.jsonl). Safe for concurrent Append calls from a single process.
type FileDailyStore struct {
	mu   sync.Mutex
	path string
}

// NewFileDailyStore opens (creating if absent) the daily log at path.
func NewFileDailyStore(path string) *FileDailyStore {
	return &FileDailyStore{path: path}
}

// Append writes r as the next line of the log.
func (s *FileDailyStore) Append(r DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("curate: open daily log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("curate: append daily record: %w", err)
	}
	return nil
}

// All reads every record committed so far, in commit order.
func (s *FileDailyStore) All() ([]DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("curate: open daily log: %w", err)
	}
	defer f.Close()

	var out []DailyRecord
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		var r DailyRecord
		if err := dec.Decode(&r); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("curate: decode daily record: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// newRecord stamps a fresh record with a sortable ID and commit time.
func newRecord(hash string, rows, cols [4]corpus.Label, words [16]string, at time.Time) DailyRecord {
	return DailyRecord{
		ID:          ids.NewDailyID(at),
		Hash:        hash,
		Rows:        rows,
		Cols:        cols,
		Words:       words,
		CommittedAt: at,
	}
}
