package search

import (
	"context"
	"testing"

	"github.com/rbscholtus/connecdoku/internal/adjacency"
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/store"
)

func benchGridBimap(b *testing.B) *corpus.Bimap {
	b.Helper()
	rows := []corpus.Label{"R1", "R2", "R3", "R4"}
	cols := []corpus.Label{"C1", "C2", "C3", "C4"}
	raw := map[corpus.Word][]corpus.Label{}
	n := 0
	for _, r := range rows {
		for _, c := range cols {
			n++
			raw[corpus.Word(wordForIndex(n))] = []corpus.Label{r, c}
		}
	}
	bm, err := corpus.Normalize(raw)
	if err != nil {
		b.Fatal(err)
	}
	return bm
}

func BenchmarkEngine_Run_SingleWorker(b *testing.B) {
	bm := benchGridBimap(b)
	g := adjacency.Build(bm)

	for i := 0; i < b.N; i++ {
		st := store.NewMemStore()
		eng := &Engine{Bimap: bm, Graph: g, Store: st}
		if err := eng.Run(context.Background(), Options{Workers: 1, CheckpointDir: b.TempDir(), SaveInterval: 1000000}); err != nil {
			b.Fatal(err)
		}
	}
}
