package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbscholtus/connecdoku/internal/corpus"
)

func layoutFor(rows, cols [4]corpus.Label) Layout {
	return Layout{Rows: rows, Cols: cols}
}

// TestFingerprint_RowColumnSwapSymmetry is spec.md scenario S3: swapping
// the roles of rows and columns produces the identical fingerprint.
func TestFingerprint_RowColumnSwapSymmetry(t *testing.T) {
	rows := [4]corpus.Label{"R1", "R2", "R3", "R4"}
	cols := [4]corpus.Label{"C1", "C2", "C3", "C4"}

	a := Fingerprint(layoutFor(rows, cols))
	b := Fingerprint(layoutFor(cols, rows))
	assert.Equal(t, a, b)
}

func TestFingerprint_OrderWithinRowOrColumnDoesNotMatter(t *testing.T) {
	rows := [4]corpus.Label{"R1", "R2", "R3", "R4"}
	cols := [4]corpus.Label{"C1", "C2", "C3", "C4"}
	shuffledRows := [4]corpus.Label{"R4", "R3", "R2", "R1"}

	a := Fingerprint(layoutFor(rows, cols))
	b := Fingerprint(layoutFor(shuffledRows, cols))
	assert.Equal(t, a, b)
}

func TestFingerprint_DifferentLabelSetsDiffer(t *testing.T) {
	a := Fingerprint(layoutFor([4]corpus.Label{"R1", "R2", "R3", "R4"}, [4]corpus.Label{"C1", "C2", "C3", "C4"}))
	b := Fingerprint(layoutFor([4]corpus.Label{"R1", "R2", "R3", "R4"}, [4]corpus.Label{"C1", "C2", "C3", "X"}))
	assert.NotEqual(t, a, b)
}

// TestMemStore_InsertIsIdempotentByFingerprint is spec.md invariant 4:
// no two stored layouts share a fingerprint.
func TestMemStore_InsertIsIdempotentByFingerprint(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	rows := [4]corpus.Label{"R1", "R2", "R3", "R4"}
	cols := [4]corpus.Label{"C1", "C2", "C3", "C4"}

	r1, err := s.Insert(ctx, layoutFor(rows, cols))
	require.NoError(t, err)
	assert.False(t, r1.Duplicate)

	r2, err := s.Insert(ctx, layoutFor(cols, rows)) // swapped roles, same 8 labels
	require.NoError(t, err)
	assert.True(t, r2.Duplicate)
	assert.Equal(t, r1.Hash, r2.Hash)
	assert.Equal(t, 1, s.Len())
}

func TestMemStore_ScanRespectsHashRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	for i := 0; i < 4; i++ {
		l := layoutFor(
			[4]corpus.Label{corpus.Label(rune('A' + i)), "R2", "R3", "R4"},
			[4]corpus.Label{"C1", "C2", "C3", "C4"},
		)
		_, err := s.Insert(ctx, l)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, s.Len())

	var seen int
	for row, err := range s.Scan(ctx, HashRange{}) {
		require.NoError(t, err)
		_ = row
		seen++
	}
	assert.Equal(t, 4, seen)

	var none int
	for range s.Scan(ctx, HashRange{Lo: "zzzzzzzzzzzzzzzzzzzzzzzz"}) {
		none++
	}
	assert.Zero(t, none)
}

func TestMemStore_DeleteReturnsCountActuallyDeleted(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	res, err := s.Insert(ctx, layoutFor([4]corpus.Label{"R1", "R2", "R3", "R4"}, [4]corpus.Label{"C1", "C2", "C3", "C4"}))
	require.NoError(t, err)

	n, err := s.Delete(ctx, []string{res.Hash, "nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, s.Len())
}

func TestMemStore_UpsertScoresAndCommitWords(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	res, err := s.Insert(ctx, layoutFor([4]corpus.Label{"R1", "R2", "R3", "R4"}, [4]corpus.Label{"C1", "C2", "C3", "C4"}))
	require.NoError(t, err)

	require.NoError(t, s.UpsertScores(ctx, []ScorePair{{Hash: res.Hash, Score: 4.5}}))

	var got StoredLayout
	for row, err := range s.Scan(ctx, HashRange{}) {
		require.NoError(t, err)
		got = row
	}
	require.NotNil(t, got.Score)
	assert.Equal(t, 4.5, *got.Score)

	var words [16]string
	for i := range words {
		words[i] = "w"
	}
	require.NoError(t, s.CommitWords(ctx, res.Hash, words))

	err = s.CommitWords(ctx, "missing", words)
	assert.ErrorIs(t, err, ErrNotFound)
}
