package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/store"
)

func TestViability_ExcludesWordsBelongingToOtherLabels(t *testing.T) {
	raw := map[corpus.Word][]corpus.Label{
		"ok":       {"R1", "C1"},
		"herring":  {"R1", "C1", "R2"}, // also belongs to a label it isn't seated under
	}
	bm, err := corpus.Normalize(raw)
	require.NoError(t, err)

	l := store.Layout{
		Rows: [4]corpus.Label{"R1", "R2", "R3", "R4"},
		Cols: [4]corpus.Label{"C1", "C2", "C3", "C4"},
	}
	v := Viability(bm, l, 0, 0)
	assert.ElementsMatch(t, []corpus.Word{"ok"}, v)
}

func TestFillable_FalseWhenAnyCellEmpty(t *testing.T) {
	raw := map[corpus.Word][]corpus.Label{
		"a": {"R1", "C1"},
		// R1/C2 has no word at all.
	}
	bm, err := corpus.Normalize(raw)
	require.NoError(t, err)

	l := store.Layout{
		Rows: [4]corpus.Label{"R1", "R2", "R3", "R4"},
		Cols: [4]corpus.Label{"C1", "C2", "C3", "C4"},
	}
	assert.False(t, Fillable(bm, l))
}
