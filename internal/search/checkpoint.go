package search

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rbscholtus/connecdoku/internal/corpus"
)

// CorpusHash fingerprints the canonical bimap so a checkpoint can be
// invalidated the moment the corpus it was computed against changes
// (spec.md section 4.3: "Checkpoints are keyed by a hash of the
// canonical word list so corpus changes invalidate stale checkpoints").
func CorpusHash(bm *corpus.Bimap) string {
	words := make([]corpus.Word, 0, len(bm.WordLabels))
	for w := range bm.WordLabels {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool { return words[i] < words[j] })

	h := sha256.New()
	for _, w := range words {
		fmt.Fprintf(h, "%s\x00", w)
		for _, l := range bm.Labels(w) {
			fmt.Fprintf(h, "%s\x00", l)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// checkpointState is the persisted per-worker state: (stack, rootPtr,
// iter, solved) exactly as spec.md section 4.3 names them.
type checkpointState struct {
	Stack   []int `json:"stack"`
	RootPtr int   `json:"root_ptr"`
	Iter    int   `json:"iter"`
	Solved  int   `json:"solved"`
}

func checkpointPath(dir, corpusHash string, workerID int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.json", corpusHash, workerID))
}

// loadCheckpoint reads a worker's checkpoint, returning (nil, nil) if
// none exists.
func loadCheckpoint(dir, corpusHash string, workerID int) (*checkpointState, error) {
	path := checkpointPath(dir, corpusHash, workerID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var st checkpointState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// saveCheckpoint writes st atomically (temp file + rename) so a reader
// never observes a partially-written checkpoint.
func saveCheckpoint(dir, corpusHash string, workerID int, st checkpointState) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := checkpointPath(dir, corpusHash, workerID)
	tmp := path + ".tmp"

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// purgeCheckpoints removes every checkpoint file in dir, used when a
// run is started --fresh. Checkpoints from a different corpus are
// removed by purgeStaleCheckpoints instead.
func purgeCheckpoints(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
