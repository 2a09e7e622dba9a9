package clean

import "github.com/rbscholtus/connecdoku/internal/store"

// Envelope is the line-delimited message shape exchanged between a
// cleaner worker and its writer (spec.md section 6). Only one of the
// pointer fields is set per message, mirroring the teacher's
// pointer-field LogEvent idiom (internal/telemetry.Tick) so a single
// wire type covers every message kind without a sum type. A
// single-process build still constructs and decodes these envelopes —
// only the transport collapses from a pipe between OS processes to an
// io.Pipe between goroutines.
type Envelope struct {
	Type string `json:"type"`

	Init         *InitMsg         `json:"init,omitempty"`
	UpsertScores *UpsertScoresMsg `json:"upsert_scores,omitempty"`
	Delete       *DeleteMsg       `json:"delete,omitempty"`
	Tally        *TallyMsg        `json:"tally,omitempty"`
	Ack          *AckMsg          `json:"ack,omitempty"`
	Ready        *ReadyMsg        `json:"ready,omitempty"`
}

const (
	TypeInit         = "init"
	TypeUpsertScores = "upsert_scores"
	TypeDelete       = "delete"
	TypeTally        = "tally"
	TypeAck          = "ack"
	TypeReady        = "ready"
)

// InitMsg announces the hash range a worker is about to scan.
type InitMsg struct {
	Lo string `json:"lo"`
	Hi string `json:"hi"`
}

// UpsertScoresMsg batches score updates for valid layouts.
type UpsertScoresMsg struct {
	Pairs []store.ScorePair `json:"pairs"`
}

// DeleteMsg batches fingerprints to remove for invalid layouts.
type DeleteMsg struct {
	Hashes []string `json:"hashes"`
}

// CategoryTally is one label's valid/invalid count within a worker's
// chunk.
type CategoryTally struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// TallyMsg carries a worker's per-category (per-label) breakdown,
// delivered once at chunk completion (spec.md section 4.5).
type TallyMsg struct {
	Categories map[string]CategoryTally `json:"categories"`
}

// AckMsg is the writer's reply to an UpsertScores, Delete or Tally
// message. For a batch it reports how many rows were actually affected
// so the worker can detect a fatal mismatch (spec.md section 4.5); for
// a tally it reports how many categories were received.
type AckMsg struct {
	For     string `json:"for"` // TypeUpsertScores, TypeDelete or TypeTally
	Applied int    `json:"applied"`
}

// ReadyMsg signals the writer has drained all pending batches and the
// worker may close the connection.
type ReadyMsg struct{}
