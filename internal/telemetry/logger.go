// Package telemetry provides dual-format progress logging: a
// human-readable console stream and a JSONL stream for offline
// analysis. Adapted from the teacher's BLSLogger (optimization-run
// telemetry) to the search/clean engines' progress ticks.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Logger writes the same event to two optional channels: console
// (human-readable) and file (one JSON object per line). Either writer
// may be nil to disable that channel.
type Logger struct {
	console   io.Writer
	file      io.Writer
	startTime time.Time
}

// New creates a Logger. Pass nil for a channel to disable it.
func New(console, file io.Writer) *Logger {
	return &Logger{console: console, file: file, startTime: time.Now()}
}

// Tick is one structured progress event: a search worker's iteration
// count, a cleaner chunk's processed/valid/invalid/deleted deltas, or a
// generic message. Fields are omitted from the JSONL encoding when
// unset, matching the teacher's pointer-field LogEvent idiom so a
// single wire shape covers every event kind without a sum type.
type Tick struct {
	Event     string `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMs int64  `json:"elapsed_ms"`

	WorkerID *int `json:"worker_id,omitempty"`
	Iter     *int `json:"iter,omitempty"`
	Solved   *int `json:"solved,omitempty"`

	Processed   *int `json:"processed,omitempty"`
	Total       *int `json:"total,omitempty"`
	ValidDelta  *int `json:"valid_delta,omitempty"`
	InvalidDelta *int `json:"invalid_delta,omitempty"`
	DeletedDelta *int `json:"deleted_delta,omitempty"`

	Message string `json:"message,omitempty"`
}

// Log writes t to whichever channels are configured. Console output is
// a single human-readable line; file output is the JSONL encoding.
func (l *Logger) Log(t Tick) {
	t.Timestamp = time.Now()
	t.ElapsedMs = t.Timestamp.Sub(l.startTime).Milliseconds()

	if l.console != nil {
		fmt.Fprintln(l.console, formatConsole(t))
	}
	if l.file != nil {
		if data, err := json.Marshal(t); err == nil {
			fmt.Fprintln(l.file, string(data))
		}
	}
}

func formatConsole(t Tick) string {
	switch {
	case t.Processed != nil:
		return fmt.Sprintf("[%6dms] %s processed=%d/%d valid+%d invalid+%d deleted+%d",
			t.ElapsedMs, t.Event, deref(t.Processed), deref(t.Total),
			deref(t.ValidDelta), deref(t.InvalidDelta), deref(t.DeletedDelta))
	case t.Iter != nil:
		return fmt.Sprintf("[%6dms] worker %d: %s iter=%d solved=%d",
			t.ElapsedMs, deref(t.WorkerID), t.Event, deref(t.Iter), deref(t.Solved))
	default:
		return fmt.Sprintf("[%6dms] %s %s", t.ElapsedMs, t.Event, t.Message)
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
