package adjacency

import (
	"testing"

	"github.com/rbscholtus/connecdoku/internal/corpus"
)

// BenchmarkBuild exercises the fixed-point pruning loop on the smallest
// non-trivial grid corpus; larger benchmarks belong in an offline
// profiling harness, not CI, matching the teacher's own split between
// small in-repo benchmarks and ad-hoc profiling scripts.
func BenchmarkBuild(b *testing.B) {
	raw := buildDisjointGridCorpus()
	bm, err := corpus.Normalize(raw)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(bm)
	}
}
