// Package curate implements the curation interface (spec.md section
// 4.6, SPEC_FULL.md section 4.6): turning a stored layout into a
// committed 16-word daily puzzle, with frequency-aware candidate lists
// and single-candidate auto-assignment.
package curate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/errkind"
	"github.com/rbscholtus/connecdoku/internal/search"
	"github.com/rbscholtus/connecdoku/internal/store"
)

// ErrFillUnreachable mirrors search.Fillable: at least one of the 16
// cells has no viable word against the current corpus. The caller
// should delete the layout from the store (spec.md section 4.6 item 1).
var ErrFillUnreachable = errors.New("curate: layout is not fillable against current corpus")

// ErrDuplicateWord is returned by AutoAssign when forcing a
// single-candidate cell collides with a word already assigned
// elsewhere in the same pass, and by Commit when an assignment uses
// the same word twice.
var ErrDuplicateWord = errors.New("curate: forced assignment collides with an existing word")

// WordCandidate is one word eligible for a cell, annotated with how
// many times it has already appeared in a committed daily puzzle.
type WordCandidate struct {
	Word corpus.Word
	Uses int
}

// CellCandidates is the annotated viability set for one of the 16
// cells of a layout.
type CellCandidates struct {
	Row, Col           corpus.Label
	RowUses, ColUses   int
	Candidates         []WordCandidate
}

// Curator computes candidate lists and commits curated assignments.
type Curator struct {
	Bimap *corpus.Bimap
	Daily DailyStore
}

// ComputeCandidates returns the annotated candidate list for each of the
// 16 cells of l. It returns ErrFillUnreachable if any cell is empty,
// matching search.Fillable's all-or-nothing semantics.
func (c *Curator) ComputeCandidates(l store.Layout) ([4][4]CellCandidates, error) {
	records, err := c.Daily.All()
	if err != nil {
		return [4][4]CellCandidates{}, fmt.Errorf("curate: load daily history: %w", err)
	}
	wordUses := tallyWords(records)
	labelUses := tallyLabels(records)

	var cells [4][4]CellCandidates
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			words := search.Viability(c.Bimap, l, i, j)
			if len(words) == 0 {
				return cells, errkind.New(errkind.FillUnreachable, ErrFillUnreachable)
			}
			cand := make([]WordCandidate, len(words))
			for k, w := range words {
				cand[k] = WordCandidate{Word: w, Uses: wordUses[w]}
			}
			cells[i][j] = CellCandidates{
				Row:     l.Rows[i],
				Col:     l.Cols[j],
				RowUses: labelUses[l.Rows[i]],
				ColUses: labelUses[l.Cols[j]],
				Candidates: cand,
			}
		}
	}
	return cells, nil
}

// AutoAssign repeatedly assigns any cell whose remaining candidate list
// (after excluding words already assigned elsewhere in this pass) has
// exactly one entry, until no more progress is made (spec.md section
// 4.6 item 3). Cells that never narrow to one candidate are left as
// the zero value in the returned grid with ok[i][j] == false.
func AutoAssign(cells [4][4]CellCandidates) (assigned [4][4]corpus.Word, ok [4][4]bool, err error) {
	used := make(map[corpus.Word]struct{})

	for {
		progressed := false
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if ok[i][j] {
					continue
				}
				var remaining []corpus.Word
				for _, cand := range cells[i][j].Candidates {
					if _, taken := used[cand.Word]; !taken {
						remaining = append(remaining, cand.Word)
					}
				}
				if len(remaining) == 0 {
					// A forced collision: this cell had candidates, but
					// every one of them was claimed by another cell in
					// this pass (spec.md section 4.6 scenario S6).
					if len(cells[i][j].Candidates) > 0 {
						return assigned, ok, ErrDuplicateWord
					}
					continue
				}
				if len(remaining) > 1 {
					continue
				}
				w := remaining[0]
				assigned[i][j] = w
				ok[i][j] = true
				used[w] = struct{}{}
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return assigned, ok, nil
}

// Commit verifies an explicit 16-word assignment against l's viability
// sets and pairwise distinctness, then persists it: CommitWords on st
// attaches the word matrix to the stored layout, and an immutable
// DailyRecord is appended (spec.md section 4.6 item 4). Nothing is
// written if verification fails.
func (c *Curator) Commit(ctx context.Context, st store.Store, hash string, l store.Layout, words [16]string, committedAt time.Time) error {
	seen := make(map[string]struct{}, 16)
	for idx, w := range words {
		if _, dup := seen[w]; dup {
			return fmt.Errorf("%w: %q assigned twice", ErrDuplicateWord, w)
		}
		seen[w] = struct{}{}

		i, j := idx/4, idx%4
		viable := search.Viability(c.Bimap, l, i, j)
		if !containsWord(viable, corpus.Word(w)) {
			return fmt.Errorf("curate: word %q is not viable at row %d col %d", w, i, j)
		}
	}

	if err := st.CommitWords(ctx, hash, words); err != nil {
		return fmt.Errorf("curate: commit words: %w", err)
	}

	rec := newRecord(hash, l.Rows, l.Cols, words, committedAt)
	if err := c.Daily.Append(rec); err != nil {
		return fmt.Errorf("curate: append daily record: %w", err)
	}
	return nil
}

func containsWord(ws []corpus.Word, w corpus.Word) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}

func tallyWords(records []DailyRecord) map[corpus.Word]int {
	out := make(map[corpus.Word]int)
	for _, r := range records {
		for _, w := range r.Words {
			out[corpus.Word(w)]++
		}
	}
	return out
}

func tallyLabels(records []DailyRecord) map[corpus.Label]int {
	out := make(map[corpus.Label]int)
	for _, r := range records {
		for _, l := range r.Rows {
			out[l]++
		}
		for _, l := range r.Cols {
			out[l]++
		}
	}
	return out
}
