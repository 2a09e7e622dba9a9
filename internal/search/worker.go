package search

import (
	"context"
	"time"

	"github.com/rbscholtus/connecdoku/internal/adjacency"
	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/store"
)

// fsmState names the worker state machine from spec.md section 4.3.2.
type fsmState int

const (
	stateExtending fsmState = iota
	stateBacktracking
	stateEmit
	stateCheckpoint
	stateDone
)

// retryBackoff implements the store's busy-retry policy (spec.md
// section 4.4): base 50ms, up to 3 attempts per batch.
var retryBackoff = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond}

// Progress is delivered to an Engine's progress sink after every
// checkpoint taken while a worker is searching; the final checkpoint
// written when a worker finishes or is cancelled delivers none.
type Progress struct {
	WorkerID int
	Iter     int
	Solved   int
}

// worker owns one stride of the position universe: root pointers
// 2*id, 2*id+2W, 2*id+4W, ... (spec.md section 4.3, "Parallelism").
type worker struct {
	id            int
	stride        int
	graph         *adjacency.Graph
	bm            *corpus.Bimap
	st            store.Store
	checkpointDir string
	corpusHash    string
	saveInterval  int
	onEmit        func(store.Layout)
	onProgress    func(Progress)
}

func (w *worker) run(ctx context.Context) error {
	p := newPartial(w.graph)
	universe := universeSize(len(w.graph.Labels))
	rootPtr := position(2 * w.id)
	iter := 0
	solved := 0
	resumeFrom := position(-1)

	if ck, err := loadCheckpoint(w.checkpointDir, w.corpusHash, w.id); err != nil {
		return err
	} else if ck != nil {
		rootPtr = position(ck.RootPtr)
		iter = ck.Iter
		solved = ck.Solved
		for _, v := range ck.Stack {
			p.push(position(v))
		}
	}

	state := stateExtending
	sinceCheckpoint := 0

	checkpointNow := func() error {
		stack := make([]int, len(p.stack))
		for i, v := range p.stack {
			stack[i] = int(v)
		}
		sinceCheckpoint = 0
		return saveCheckpoint(w.checkpointDir, w.corpusHash, w.id, checkpointState{
			Stack: stack, RootPtr: int(rootPtr), Iter: iter, Solved: solved,
		})
	}

	for state != stateDone {
		select {
		case <-ctx.Done():
			if err := checkpointNow(); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}

		switch state {
		case stateExtending:
			if rootPtr >= universe {
				state = stateDone
				continue
			}
			var start position
			switch {
			case p.depth() == 0:
				start = rootPtr
			case resumeFrom >= 0:
				start, resumeFrom = resumeFrom, -1
			default:
				start = p.top() + 1
			}

			found := false
			for c := start; c < universe; c++ {
				if p.canPush(c) {
					p.push(c)
					found = true
					break
				}
			}
			iter++
			sinceCheckpoint++
			if !found {
				state = stateBacktracking
				continue
			}
			if p.complete() {
				state = stateEmit
			}

		case stateBacktracking:
			// Popping the last stack element (depth 1 -> 0) empties a
			// worker's root attempt entirely; resume must advance to
			// this worker's next owned root (rootPtr += stride), never
			// via resumeFrom, which would let stateExtending scan
			// forward into roots owned by other workers.
			if p.depth() <= 1 {
				if p.depth() == 1 {
					p.pop()
				}
				rootPtr += position(w.stride)
				resumeFrom = -1
				state = stateExtending
				continue
			}
			popped := p.top()
			p.pop()
			resumeFrom = popped + 1
			state = stateExtending

		case stateEmit:
			rows, cols := p.labels()
			layout := store.Layout{
				Rows: [4]corpus.Label{w.graph.Labels[rows[0]], w.graph.Labels[rows[1]], w.graph.Labels[rows[2]], w.graph.Labels[rows[3]]},
				Cols: [4]corpus.Label{w.graph.Labels[cols[0]], w.graph.Labels[cols[1]], w.graph.Labels[cols[2]], w.graph.Labels[cols[3]]},
			}
			if Fillable(w.bm, layout) {
				if err := w.insertWithRetry(ctx, layout); err != nil {
					return err
				}
				solved++
				if w.onEmit != nil {
					w.onEmit(layout)
				}
				state = stateCheckpoint
			} else {
				state = stateBacktracking
			}

		case stateCheckpoint:
			if err := checkpointNow(); err != nil {
				return err
			}
			if w.onProgress != nil {
				w.onProgress(Progress{WorkerID: w.id, Iter: iter, Solved: solved})
			}
			state = stateExtending
		}

		if state != stateCheckpoint && w.saveInterval > 0 && sinceCheckpoint >= w.saveInterval {
			if err := checkpointNow(); err != nil {
				return err
			}
			if w.onProgress != nil {
				w.onProgress(Progress{WorkerID: w.id, Iter: iter, Solved: solved})
			}
		}
	}

	return checkpointNow()
}

// insertWithRetry inserts l, retrying store.ErrBusy with bounded
// exponential backoff (spec.md section 4.4).
func (w *worker) insertWithRetry(ctx context.Context, l store.Layout) error {
	var err error
	for attempt := 0; attempt < len(retryBackoff)+1; attempt++ {
		_, err = w.st.Insert(ctx, l)
		if err == nil {
			return nil
		}
		if err != store.ErrBusy {
			return err
		}
		if attempt < len(retryBackoff) {
			select {
			case <-time.After(retryBackoff[attempt]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
