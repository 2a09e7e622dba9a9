package store

import (
	"context"
	"iter"
	"sort"
	"sync"
)

// MemStore is an in-process, mutex-guarded Store implementation used by
// the test suite and by "connecdoku --store mem" offline runs. It
// mirrors the Store interface's durability contract (a successful write
// is immediately visible to Scan) without any external dependency.
type MemStore struct {
	mu   sync.Mutex
	rows map[string]StoredLayout
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[string]StoredLayout)}
}

func (m *MemStore) Insert(_ context.Context, l Layout) (InsertResult, error) {
	hash := Fingerprint(l)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[hash]; exists {
		return InsertResult{Hash: hash, Duplicate: true}, nil
	}
	m.rows[hash] = StoredLayout{Hash: hash, Rows: l.Rows, Cols: l.Cols}
	return InsertResult{Hash: hash, Duplicate: false}, nil
}

func (m *MemStore) Scan(_ context.Context, r HashRange) iter.Seq2[StoredLayout, error] {
	m.mu.Lock()
	hashes := make([]string, 0, len(m.rows))
	for h := range m.rows {
		if r.Contains(h) {
			hashes = append(hashes, h)
		}
	}
	sort.Strings(hashes)
	snapshot := make([]StoredLayout, len(hashes))
	for i, h := range hashes {
		snapshot[i] = m.rows[h]
	}
	m.mu.Unlock()

	return func(yield func(StoredLayout, error) bool) {
		for _, row := range snapshot {
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (m *MemStore) Delete(_ context.Context, hashes []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for _, h := range hashes {
		if _, ok := m.rows[h]; ok {
			delete(m.rows, h)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemStore) UpsertScores(_ context.Context, pairs []ScorePair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range pairs {
		row, ok := m.rows[p.Hash]
		if !ok {
			continue
		}
		score := p.Score
		row.Score = &score
		m.rows[p.Hash] = row
	}
	return nil
}

func (m *MemStore) CommitWords(_ context.Context, hash string, words [16]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[hash]
	if !ok {
		return ErrNotFound
	}
	row.WordMatrix = &words
	m.rows[hash] = row
	return nil
}

// Len returns the number of stored rows; a test/diagnostics helper, not
// part of the Store interface.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
