package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbscholtus/connecdoku/internal/adjacency"
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/store"
)

// buildGridBimap is the canonical S2 corpus from spec.md section 8:
// four row labels, four column labels, each Ri intersect Cj exactly one
// word, no word belonging to any other label.
func buildGridBimap(t *testing.T) *corpus.Bimap {
	t.Helper()
	rows := []corpus.Label{"R1", "R2", "R3", "R4"}
	cols := []corpus.Label{"C1", "C2", "C3", "C4"}
	raw := map[corpus.Word][]corpus.Label{}
	n := 0
	for _, r := range rows {
		for _, c := range cols {
			n++
			w := corpus.Word(wordForIndex(n))
			raw[w] = []corpus.Label{r, c}
		}
	}
	bm, err := corpus.Normalize(raw)
	require.NoError(t, err)
	return bm
}

func wordForIndex(n int) string {
	letters := "abcdefghijklmnop"
	return "word" + string(letters[n%len(letters)]) + string(letters[(n*7)%len(letters)])
}

// TestEngine_S2_EmitsExactlyOneLayout is spec.md scenario S2.
func TestEngine_S2_EmitsExactlyOneLayout(t *testing.T) {
	bm := buildGridBimap(t)
	g := adjacency.Build(bm)
	require.Len(t, g.Labels, 8)

	st := store.NewMemStore()
	eng := &Engine{Bimap: bm, Graph: g, Store: st}
	err := eng.Run(context.Background(), Options{Workers: 1, CheckpointDir: t.TempDir(), SaveInterval: 1000000})
	require.NoError(t, err)

	assert.Equal(t, 1, st.Len())
}

// TestEngine_S3_RowColumnSwapProducesNoDuplicate is spec.md scenario S3:
// a three-worker search over the S2 corpus stores a single layout, and
// that layout's fingerprint equals the fingerprint of the layout with
// the input's row and column roles swapped (rows C1..C4, cols R1..R4).
func TestEngine_S3_RowColumnSwapProducesNoDuplicate(t *testing.T) {
	bm := buildGridBimap(t)
	g := adjacency.Build(bm)

	st := store.NewMemStore()
	eng := &Engine{Bimap: bm, Graph: g, Store: st}
	require.NoError(t, eng.Run(context.Background(), Options{Workers: 3, CheckpointDir: t.TempDir(), SaveInterval: 1000000}))

	assert.Equal(t, 1, st.Len())

	var hash string
	for row := range st.Scan(context.Background(), store.HashRange{}) {
		hash = row.Hash
	}

	manual := store.Layout{
		Rows: [4]corpus.Label{"C1", "C2", "C3", "C4"},
		Cols: [4]corpus.Label{"R1", "R2", "R3", "R4"},
	}
	assert.Equal(t, hash, store.Fingerprint(manual))
}

// TestEngine_EmittedLayoutsAreAdjacencyValidAndFillable is spec.md
// invariant 3.
func TestEngine_EmittedLayoutsAreAdjacencyValidAndFillable(t *testing.T) {
	bm := buildGridBimap(t)
	g := adjacency.Build(bm)

	st := store.NewMemStore()
	eng := &Engine{Bimap: bm, Graph: g, Store: st}
	require.NoError(t, eng.Run(context.Background(), Options{Workers: 2, CheckpointDir: t.TempDir(), SaveInterval: 1000000}))

	for row, err := range st.Scan(context.Background(), store.HashRange{}) {
		require.NoError(t, err)
		l := store.Layout{Rows: row.Rows, Cols: row.Cols}
		assert.True(t, Fillable(bm, l))

		seen := map[corpus.Label]bool{}
		for _, lbl := range l.Labels() {
			assert.False(t, seen[lbl], "labels must be pairwise distinct")
			seen[lbl] = true
		}
		for _, r := range l.Rows {
			ri := g.Index(r)
			for _, r2 := range l.Rows {
				if r == r2 {
					continue
				}
				assert.True(t, g.R2[ri].Has(g.Index(r2)))
			}
		}
		for _, r := range l.Rows {
			for _, c := range l.Cols {
				assert.True(t, g.R1[g.Index(r)].Has(g.Index(c)))
			}
		}
	}
}

// TestEngine_CheckpointResumptionReproducesFinalSet is spec.md
// invariant 7: resuming from a checkpoint produces the same final set
// of layouts as an uninterrupted run with the same worker count.
func TestEngine_CheckpointResumptionReproducesFinalSet(t *testing.T) {
	bm := buildGridBimap(t)
	g := adjacency.Build(bm)

	uninterrupted := store.NewMemStore()
	eng1 := &Engine{Bimap: bm, Graph: g, Store: uninterrupted}
	require.NoError(t, eng1.Run(context.Background(), Options{Workers: 1, CheckpointDir: t.TempDir(), SaveInterval: 1000000}))

	ckptDir := t.TempDir()
	interrupted := store.NewMemStore()

	// First pass: cancel almost immediately, forcing a checkpoint mid search.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng2 := &Engine{Bimap: bm, Graph: g, Store: interrupted}
	_ = eng2.Run(ctx, Options{Workers: 1, CheckpointDir: ckptDir, SaveInterval: 1})

	// Resume to completion.
	eng3 := &Engine{Bimap: bm, Graph: g, Store: interrupted}
	require.NoError(t, eng3.Run(context.Background(), Options{Workers: 1, CheckpointDir: ckptDir, SaveInterval: 1000000}))

	assert.Equal(t, uninterrupted.Len(), interrupted.Len())
}

func TestEngine_EmptyEligibleSetYieldsNoLayouts(t *testing.T) {
	raw := map[corpus.Word][]corpus.Label{
		"AAAA": {"X", "Y"},
		"BBBB": {"X", "Y"},
		"CCCC": {"X", "Y"},
		"DDDD": {"X", "Y"},
	}
	bm, err := corpus.Normalize(raw)
	require.NoError(t, err)
	g := adjacency.Build(bm)
	require.Empty(t, g.Labels)

	st := store.NewMemStore()
	eng := &Engine{Bimap: bm, Graph: g, Store: st}
	require.NoError(t, eng.Run(context.Background(), Options{Workers: 2, CheckpointDir: t.TempDir()}))
	assert.Equal(t, 0, st.Len())
}
