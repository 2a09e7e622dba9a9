package store

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/rbscholtus/connecdoku/internal/corpus"
)

// fingerprintBytes is the number of leading digest bytes kept as the
// stored key: 96 bits, as spec.md section 6 requires ("only the first
// 96 bits are required to be collision-free in practice").
const fingerprintBytes = 12

// Fingerprint computes l's order-insensitive identity: sort all eight
// labels as a flat set (so swapping rows and columns of the same eight
// labels, or reordering within a row or column, yields the identical
// fingerprint — spec.md's row/column-swap symmetry), join with the
// reserved '|' delimiter, and take the first 96 bits of a SHA-256
// digest, hex-encoded.
func Fingerprint(l Layout) string {
	all := make([]string, 0, 8)
	for _, r := range l.Rows {
		all = append(all, string(r))
	}
	for _, c := range l.Cols {
		all = append(all, string(c))
	}
	sort.Strings(all)
	joined := strings.Join(all, "|")

	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:fingerprintBytes])
}

// Labels returns the eight labels of l as a slice, rows first, for
// callers that don't care about the row/column distinction.
func (l Layout) Labels() []corpus.Label {
	out := make([]corpus.Label, 0, 8)
	out = append(out, l.Rows[:]...)
	out = append(out, l.Cols[:]...)
	return out
}
