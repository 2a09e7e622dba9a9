// Package ids mints the identifiers the engine needs beyond layout
// fingerprints: opaque run/request IDs and sortable record IDs.
package ids

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewRunID returns an opaque, random identifier (a UUID string). The
// clean protocol's messages carry no request ID.
func NewRunID() string {
	return uuid.NewString()
}

// NewDailyID returns a lexicographically sortable identifier for a
// committed daily-puzzle record, so the append-only list (spec.md
// section 4.6) can be ordered by commit time without a separate
// timestamp index.
func NewDailyID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}
