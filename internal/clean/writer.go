package clean

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rbscholtus/connecdoku/internal/store"
)

// Writer applies UpsertScores/Delete batches to a Store and
// acknowledges each one. It runs as its own goroutine, reading
// Envelopes from req and writing Ack/Ready Envelopes to resp, so a
// worker never touches the store directly — the protocol boundary
// from spec.md section 6 survives even though both ends live in the
// same process.
type Writer struct {
	Store store.Store
}

// Run decodes Envelopes from req until req is closed or ctx is done,
// applying each batch to the store and writing an Ack (or, on a Ready
// envelope, a Ready reply and return).
func (w *Writer) Run(ctx context.Context, req io.Reader, resp io.Writer) error {
	dec := json.NewDecoder(req)
	enc := json.NewEncoder(resp)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var env Envelope
		if err := dec.Decode(&env); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("clean: writer decode: %w", err)
		}

		switch env.Type {
		case TypeInit:
			// Nothing to apply; acknowledged implicitly by proceeding.
			continue
		case TypeTally:
			if env.Tally == nil {
				return fmt.Errorf("clean: tally envelope missing body")
			}
			if err := enc.Encode(Envelope{Type: TypeAck, Ack: &AckMsg{
				For:     TypeTally,
				Applied: len(env.Tally.Categories),
			}}); err != nil {
				return fmt.Errorf("clean: writer encode ack: %w", err)
			}
		case TypeUpsertScores:
			if env.UpsertScores == nil {
				return fmt.Errorf("clean: upsert_scores envelope missing body")
			}
			if err := w.Store.UpsertScores(ctx, env.UpsertScores.Pairs); err != nil {
				return fmt.Errorf("clean: upsert scores: %w", err)
			}
			if err := enc.Encode(Envelope{Type: TypeAck, Ack: &AckMsg{
				For:     TypeUpsertScores,
				Applied: len(env.UpsertScores.Pairs),
			}}); err != nil {
				return fmt.Errorf("clean: writer encode ack: %w", err)
			}
		case TypeDelete:
			if env.Delete == nil {
				return fmt.Errorf("clean: delete envelope missing body")
			}
			n, err := w.Store.Delete(ctx, env.Delete.Hashes)
			if err != nil {
				return fmt.Errorf("clean: delete: %w", err)
			}
			if err := enc.Encode(Envelope{Type: TypeAck, Ack: &AckMsg{
				For:     TypeDelete,
				Applied: n,
			}}); err != nil {
				return fmt.Errorf("clean: writer encode ack: %w", err)
			}
		case TypeReady:
			return enc.Encode(Envelope{Type: TypeReady, Ready: &ReadyMsg{}})
		default:
			return fmt.Errorf("clean: unknown envelope type %q", env.Type)
		}
	}
}
