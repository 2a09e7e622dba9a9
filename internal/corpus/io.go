package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadRaw reads the input corpus.json (word -> [label]) from path.
func LoadRaw(path string) (map[Word][]Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	var raw map[Word][]Label
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("corpus: parse %s: %w", path, err)
	}
	return raw, nil
}

// SaveLabels writes the derived label -> [word] mapping to path
// (labels.json, spec.md section 6), sorted for reproducible diffs.
func SaveLabels(path string, bm *Bimap) error {
	out := make(map[Label][]Word, len(bm.Inverse))
	for l, words := range bm.Inverse {
		out[l] = words
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("corpus: marshal labels: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("corpus: write %s: %w", path, err)
	}
	return nil
}

// LoadLabelScores reads the optional labelScores.json sidecar
// (label -> float, spec.md section 6). A missing file is not an error:
// the cleaner treats every label as score 0 in that case.
func LoadLabelScores(path string) (map[Label]float64, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[Label]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	var out map[Label]float64
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("corpus: parse %s: %w", path, err)
	}
	return out, nil
}
