package clean

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rbscholtus/connecdoku/internal/corpus"
	"github.com/rbscholtus/connecdoku/internal/errkind"
	"github.com/rbscholtus/connecdoku/internal/search"
	"github.com/rbscholtus/connecdoku/internal/store"
	"github.com/rbscholtus/connecdoku/internal/telemetry"
)

// DefaultBatchSize is the flush threshold from spec.md section 4.5.
const DefaultBatchSize = 100

// DefaultTimeout is how long a worker waits for a writer ack before
// reporting HelperStall (spec.md section 4.5).
const DefaultTimeout = 5 * time.Minute

// Tally is the per-worker running total reported at chunk completion.
type Tally struct {
	Processed  int
	Valid      int
	Invalid    int
	Deleted    int
	Categories map[corpus.Label]CategoryTally
}

// Worker revalidates every layout whose fingerprint falls in Range,
// scoring survivors and batching the rest for deletion.
type Worker struct {
	ID          int
	Store       store.Store
	Bimap       *corpus.Bimap
	LabelScores map[corpus.Label]float64
	Range       store.HashRange
	BatchSize   int
	Timeout     time.Duration
}

// Run scans Range, recomputes fillability for each layout against the
// current Bimap, and batches scores/deletes through an in-process
// Writer connected over an io.Pipe duplex. onTick, if non-nil, is
// called after every flushed batch.
func (w *Worker) Run(ctx context.Context, onTick func(telemetry.Tick)) (Tally, error) {
	batchSize := w.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	wr := &Writer{Store: w.Store}
	writerDone := make(chan error, 1)
	go func() { writerDone <- wr.Run(ctx, reqR, respW) }()

	enc := json.NewEncoder(reqW)
	acks := make(chan Envelope)
	ackErrs := make(chan error, 1)
	go func() {
		dec := json.NewDecoder(respR)
		for {
			var env Envelope
			if err := dec.Decode(&env); err != nil {
				ackErrs <- err
				return
			}
			acks <- env
		}
	}()

	send := func(env Envelope, wantFor string) (int, error) {
		if err := enc.Encode(env); err != nil {
			return 0, fmt.Errorf("clean: worker %d encode: %w", w.ID, err)
		}
		select {
		case got := <-acks:
			if got.Type != TypeAck || got.Ack == nil || got.Ack.For != wantFor {
				return 0, fmt.Errorf("clean: worker %d unexpected reply %q", w.ID, got.Type)
			}
			return got.Ack.Applied, nil
		case err := <-ackErrs:
			return 0, fmt.Errorf("clean: worker %d writer closed: %w", w.ID, err)
		case <-time.After(timeout):
			return 0, errkind.New(errkind.HelperStall, ErrHelperStall)
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	closeDown := func() {
		// Drain replies nobody waits for any more (a late ack after a
		// stall, the writer's Ready) so the writer never blocks on resp.
		go func() {
			for {
				select {
				case <-acks:
				case <-ackErrs:
					return
				}
			}
		}()
		_ = enc.Encode(Envelope{Type: TypeReady, Ready: &ReadyMsg{}})
		_ = reqW.Close()
		<-writerDone
		_ = respW.Close()
	}

	if err := enc.Encode(Envelope{Type: TypeInit, Init: &InitMsg{Lo: w.Range.Lo, Hi: w.Range.Hi}}); err != nil {
		closeDown()
		return Tally{}, fmt.Errorf("clean: worker %d init: %w", w.ID, err)
	}

	var tally Tally
	var scoreBatch []store.ScorePair
	var deleteBatch []string
	var pendingInvalid int
	categoryTallies := make(map[corpus.Label]CategoryTally)

	recordCategory := func(l store.Layout, valid bool) {
		for _, label := range allLabels(l) {
			ct := categoryTallies[label]
			if valid {
				ct.Valid++
			} else {
				ct.Invalid++
			}
			categoryTallies[label] = ct
		}
	}

	flushScores := func() error {
		if len(scoreBatch) == 0 {
			return nil
		}
		n, err := send(Envelope{Type: TypeUpsertScores, UpsertScores: &UpsertScoresMsg{Pairs: scoreBatch}}, TypeUpsertScores)
		if err != nil {
			return err
		}
		tally.Valid += n
		if onTick != nil {
			delta := len(scoreBatch)
			onTick(telemetry.Tick{Event: "clean_flush", Processed: &tally.Processed, ValidDelta: &delta})
		}
		scoreBatch = scoreBatch[:0]
		return nil
	}

	flushDeletes := func() error {
		if len(deleteBatch) == 0 {
			return nil
		}
		n, err := send(Envelope{Type: TypeDelete, Delete: &DeleteMsg{Hashes: deleteBatch}}, TypeDelete)
		if err != nil {
			return err
		}
		if n < pendingInvalid {
			return errkind.New(errkind.FatalMismatch, ErrFatalMismatch)
		}
		tally.Deleted += n
		if onTick != nil {
			delta := len(deleteBatch)
			onTick(telemetry.Tick{Event: "clean_flush", Processed: &tally.Processed, DeletedDelta: &delta})
		}
		deleteBatch = deleteBatch[:0]
		pendingInvalid = 0
		return nil
	}

	for sl, scanErr := range w.Store.Scan(ctx, w.Range) {
		if scanErr != nil {
			closeDown()
			return tally, fmt.Errorf("clean: worker %d scan: %w", w.ID, scanErr)
		}

		tally.Processed++
		l := store.Layout{Rows: sl.Rows, Cols: sl.Cols}
		valid := search.Fillable(w.Bimap, l)
		recordCategory(l, valid)
		if valid {
			score := scoreLayout(w.LabelScores, l)
			scoreBatch = append(scoreBatch, store.ScorePair{Hash: sl.Hash, Score: score})
			if len(scoreBatch) >= batchSize {
				if err := flushScores(); err != nil {
					closeDown()
					return tally, err
				}
			}
		} else {
			tally.Invalid++
			pendingInvalid++
			deleteBatch = append(deleteBatch, sl.Hash)
			if len(deleteBatch) >= batchSize {
				if err := flushDeletes(); err != nil {
					closeDown()
					return tally, err
				}
			}
		}
	}

	if err := flushScores(); err != nil {
		closeDown()
		return tally, err
	}
	if err := flushDeletes(); err != nil {
		closeDown()
		return tally, err
	}

	wireCategories := make(map[string]CategoryTally, len(categoryTallies))
	for label, ct := range categoryTallies {
		wireCategories[string(label)] = ct
	}
	if _, err := send(Envelope{Type: TypeTally, Tally: &TallyMsg{Categories: wireCategories}}, TypeTally); err != nil {
		closeDown()
		return tally, err
	}
	tally.Categories = categoryTallies

	closeDown()
	return tally, nil
}

// allLabels returns l's 8 row/col labels, the "categories" a worker's
// per-category tally (spec.md section 4.5) is keyed by.
func allLabels(l store.Layout) []corpus.Label {
	out := make([]corpus.Label, 0, 8)
	out = append(out, l.Rows[:]...)
	out = append(out, l.Cols[:]...)
	return out
}

func scoreLayout(scores map[corpus.Label]float64, l store.Layout) float64 {
	var total float64
	for _, r := range l.Rows {
		total += scores[r]
	}
	for _, c := range l.Cols {
		total += scores[c]
	}
	return total
}
