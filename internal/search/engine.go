package search

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rbscholtus/connecdoku/internal/adjacency"
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/store"
)

// Options configures an Engine.Run invocation.
type Options struct {
	Workers       int
	CheckpointDir string
	SaveInterval  int // iterations between checkpoints; spec.md default 10000
	Fresh         bool
	OnProgress    func(Progress)
	OnEmit        func(store.Layout)
}

// Engine enumerates every adjacency-valid, fillable layout over a
// corpus's eligible labels, partitioning the search across Workers
// goroutines that share nothing but the store (spec.md section 4.3).
type Engine struct {
	Bimap *corpus.Bimap
	Graph *adjacency.Graph
	Store store.Store
}

// Run starts or resumes a search; on return the Store is populated with
// every layout discoverable up to return or cancellation.
func (e *Engine) Run(ctx context.Context, opts Options) error {
	if opts.Workers <= 0 {
		opts.Workers = 6 // spec.md section 6 CLI default
	}
	corpusHash := CorpusHash(e.Bimap)

	if opts.Fresh {
		if err := purgeCheckpoints(opts.CheckpointDir); err != nil {
			return err
		}
	} else if err := purgeStaleCheckpoints(opts.CheckpointDir, corpusHash); err != nil {
		return err
	}

	if len(e.Graph.Labels) == 0 {
		return nil // empty L* is a valid, zero-layout result (spec.md section 4.2)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Workers; i++ {
		w := &worker{
			id:            i,
			stride:        2 * opts.Workers,
			graph:         e.Graph,
			bm:            e.Bimap,
			st:            e.Store,
			checkpointDir: opts.CheckpointDir,
			corpusHash:    corpusHash,
			saveInterval:  opts.SaveInterval,
			onEmit:        opts.OnEmit,
			onProgress:    opts.OnProgress,
		}
		g.Go(func() error { return w.run(gctx) })
	}
	return g.Wait()
}

// purgeStaleCheckpoints removes checkpoint files not keyed by
// corpusHash, so a corpus change never causes a worker to resume from
// state computed against a different corpus (spec.md section 4.3).
func purgeStaleCheckpoints(dir, corpusHash string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	prefix := corpusHash + "_"
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
