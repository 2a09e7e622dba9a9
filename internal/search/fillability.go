package search

import (
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/store"
)

// Viability computes V(R,C,i,j): the words that satisfy both rows[i]
// and cols[j] and fail all six other labels of the layout (spec.md
// section 3). Populations come straight from bm, sorted, so the
// intersection/subtraction below is a plain sorted-merge — this runs
// once per candidate complete layout, not in the R1/R2 hot loop, so a
// bitset representation buys nothing here and a merge over the
// bimap's own []Word slices is simpler and just as fast in practice.
func Viability(bm *corpus.Bimap, l store.Layout, i, j int) []corpus.Word {
	rowPop := bm.Population(l.Rows[i])
	colPop := bm.Population(l.Cols[j])
	candidates := intersectSorted(rowPop, colPop)
	if len(candidates) == 0 {
		return nil
	}

	for oi, r := range l.Rows {
		if oi == i {
			continue
		}
		candidates = subtractSorted(candidates, bm.Population(r))
		if len(candidates) == 0 {
			return nil
		}
	}
	for oj, c := range l.Cols {
		if oj == j {
			continue
		}
		candidates = subtractSorted(candidates, bm.Population(c))
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

// Fillable reports whether every one of the 16 cells of l has a
// non-empty viability set, short-circuiting on the first empty cell
// (spec.md section 4.3.1). It does not construct a 16-word assignment;
// non-emptiness alone proves one exists, since each word in Vij remains
// usable at (i,j) regardless of what's chosen elsewhere.
func Fillable(bm *corpus.Bimap, l store.Layout) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if len(Viability(bm, l, i, j)) == 0 {
				return false
			}
		}
	}
	return true
}

// intersectSorted returns the sorted intersection of two sorted,
// duplicate-free slices.
func intersectSorted(a, b []corpus.Word) []corpus.Word {
	var out []corpus.Word
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// subtractSorted returns a minus the elements of b, both sorted and
// duplicate-free.
func subtractSorted(a, b []corpus.Word) []corpus.Word {
	if len(b) == 0 {
		return a
	}
	out := make([]corpus.Word, 0, len(a))
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) || a[i] < b[j] {
			out = append(out, a[i])
			i++
			continue
		}
		if a[i] == b[j] {
			i++
			continue
		}
		j++
	}
	return out
}
