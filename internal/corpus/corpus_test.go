package corpus

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DedupesAndSortsLabels(t *testing.T) {
	raw := map[Word][]Label{
		"apple": {"fruit", "fruit", "red"},
	}
	bm, err := Normalize(raw)
	require.NoError(t, err)

	labels := bm.Labels("apple")
	require.NotNil(t, labels)
	assert.Equal(t, []Label{"fruit", "red"}, withoutPattern(labels, false))
}

func TestNormalize_AddsPatternLabelsForLongWords(t *testing.T) {
	raw := map[Word][]Label{
		"apple": {"fruit"},
		"hi":    {"greeting"},
	}
	bm, err := Normalize(raw)
	require.NoError(t, err)

	appleLabels := bm.Labels("apple")
	var patterns []Label
	for _, l := range appleLabels {
		if IsPatternLabel(l) {
			patterns = append(patterns, l)
		}
	}
	assert.Len(t, patterns, 2)

	hiLabels := bm.Labels("hi")
	for _, l := range hiLabels {
		assert.False(t, IsPatternLabel(l), "word shorter than 3 runes must get no pattern labels")
	}
}

func TestNormalize_StripsStalePatternLabelsBeforeRecomputing(t *testing.T) {
	raw := map[Word][]Label{
		"apple": {"fruit", patternPrefix + "XXX"},
	}
	bm, err := Normalize(raw)
	require.NoError(t, err)

	var stale int
	for _, l := range bm.Labels("apple") {
		if l == Label(patternPrefix+"XXX") {
			stale++
		}
	}
	assert.Zero(t, stale)
}

func TestNormalize_FoldsNearDuplicateSpellingsKeepingLongest(t *testing.T) {
	raw := map[Word][]Label{
		"New York":   {"city"},
		"new  york":  {"metro"},
		"NEW YORK  ": {"usa"},
	}
	bm, err := Normalize(raw)
	require.NoError(t, err)

	require.Len(t, bm.WordLabels, 1)
	var canonical Word
	for w := range bm.WordLabels {
		canonical = w
	}
	assert.Equal(t, Word("NEW YORK  "), canonical)
	labels := withoutPattern(bm.Labels(canonical), true)
	assert.ElementsMatch(t, []Label{"city", "metro", "usa"}, labels)
}

func TestNormalize_InverseDropsEmptyPopulations(t *testing.T) {
	raw := map[Word][]Label{
		"apple": {"fruit"},
	}
	bm, err := Normalize(raw)
	require.NoError(t, err)

	_, ok := bm.Inverse["nonexistent"]
	assert.False(t, ok)
	assert.Equal(t, []Word{"apple"}, bm.Population("fruit"))
}

func TestNormalize_RejectsReservedDelimiter(t *testing.T) {
	raw := map[Word][]Label{
		"apple": {"fr|uit"},
	}
	_, err := Normalize(raw)
	require.Error(t, err)
	var ie *IntegrityError
	require.ErrorAs(t, err, &ie)
}

func TestNormalize_RejectsEmptyWord(t *testing.T) {
	raw := map[Word][]Label{
		"": {"fruit"},
	}
	_, err := Normalize(raw)
	require.Error(t, err)
}

// withoutPattern filters out pattern labels, optionally returning a
// sorted copy; it exists only to keep assertions focused on the
// author-supplied labels.
func withoutPattern(labels []Label, sortOut bool) []Label {
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if !IsPatternLabel(l) {
			out = append(out, l)
		}
	}
	if sortOut {
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	}
	return out
}
