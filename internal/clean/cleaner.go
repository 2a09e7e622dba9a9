package clean

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/errkind"
	"github.com/rbscholtus/connecdoku/internal/store"
	"github.com/rbscholtus/connecdoku/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// rangePrefixDigits is the number of leading hex digits of the 24-digit
// fingerprint used to carve up the hash space; 65536 buckets is ample
// granularity for any worker count this tool would realistically run
// with.
const rangePrefixDigits = 4

// PartitionRanges splits the full fingerprint space into n contiguous,
// half-open HashRanges of roughly equal size (spec.md section 4.5: "one
// worker per range").
func PartitionRanges(n int) []store.HashRange {
	if n <= 0 {
		n = 1
	}
	span := new(big.Int).Lsh(big.NewInt(1), uint(4*rangePrefixDigits))
	ranges := make([]store.HashRange, n)
	for i := 0; i < n; i++ {
		var lo string
		if i > 0 {
			lo = hexBoundary(span, i, n)
		}
		var hi string
		if i < n-1 {
			hi = hexBoundary(span, i+1, n)
		}
		ranges[i] = store.HashRange{Lo: lo, Hi: hi}
	}
	return ranges
}

func hexBoundary(span *big.Int, i, n int) string {
	v := new(big.Int).Mul(span, big.NewInt(int64(i)))
	v.Div(v, big.NewInt(int64(n)))
	return fmt.Sprintf("%0*x", rangePrefixDigits, v)
}

// Cleaner runs one Worker per hash-range partition concurrently and
// aggregates their tallies (spec.md section 4.5, SPEC_FULL.md section
// 4.5). Grounded on the teacher's errgroup-based worker pool idiom,
// the same pattern internal/search uses for the solver's worker pool.
type Cleaner struct {
	Store       store.Store
	Bimap       *corpus.Bimap
	LabelScores map[corpus.Label]float64
	Workers     int
	BatchSize   int
	Timeout     time.Duration // 0 uses DefaultTimeout
}

// Result is the aggregate outcome of a clean run.
type Result struct {
	Tally  Tally
	Errors *errkind.Summary
}

// Run partitions the store across Cleaner.Workers workers and runs them
// concurrently. A worker's HelperStall or scan error is recorded in the
// returned Result and does not abort siblings; a FatalMismatch aborts
// the whole group immediately (errgroup cancels the shared context).
func (c *Cleaner) Run(ctx context.Context, onTick func(telemetry.Tick)) (Result, error) {
	n := c.Workers
	if n <= 0 {
		n = 1
	}
	ranges := PartitionRanges(n)

	g, gctx := errgroup.WithContext(ctx)
	tallies := make([]Tally, n)
	errs := errkind.NewSummary()

	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			w := &Worker{
				ID:          i,
				Store:       c.Store,
				Bimap:       c.Bimap,
				LabelScores: c.LabelScores,
				Range:       r,
				BatchSize:   c.BatchSize,
				Timeout:     c.Timeout,
			}
			t, err := w.Run(gctx, onTick)
			tallies[i] = t
			if err != nil {
				errs.Record(err)
				if isFatalMismatch(err) {
					return err
				}
			}
			return nil
		})
	}

	runErr := g.Wait()

	var total Tally
	total.Categories = make(map[corpus.Label]CategoryTally)
	for _, t := range tallies {
		total.Processed += t.Processed
		total.Valid += t.Valid
		total.Invalid += t.Invalid
		total.Deleted += t.Deleted
		for label, ct := range t.Categories {
			merged := total.Categories[label]
			merged.Valid += ct.Valid
			merged.Invalid += ct.Invalid
			total.Categories[label] = merged
		}
	}

	return Result{Tally: total, Errors: errs}, runErr
}

func isFatalMismatch(err error) bool {
	ke, ok := err.(*errkind.Error)
	return ok && ke.Kind == errkind.FatalMismatch
}
