package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRunID_ReturnsDistinctValues(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36) // canonical UUID string length
}

func TestNewDailyID_IsLexicographicallySortableByTime(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	id1 := NewDailyID(t1)
	id2 := NewDailyID(t2)
	assert.Less(t, id1, id2)
}
