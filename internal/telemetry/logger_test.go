package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesConsoleAndJSONL(t *testing.T) {
	var console, file bytes.Buffer
	l := New(&console, &file)

	iter := 5
	solved := 2
	workerID := 1
	l.Log(Tick{Event: "progress", WorkerID: &workerID, Iter: &iter, Solved: &solved})

	assert.Contains(t, console.String(), "worker 1")
	assert.Contains(t, console.String(), "iter=5")

	var decoded Tick
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(file.Bytes()), &decoded))
	assert.Equal(t, "progress", decoded.Event)
	require.NotNil(t, decoded.Iter)
	assert.Equal(t, 5, *decoded.Iter)
}

func TestLogger_NilChannelsAreSkipped(t *testing.T) {
	l := New(nil, nil)
	assert.NotPanics(t, func() {
		l.Log(Tick{Event: "noop"})
	})
}

func TestLogger_DisabledChannelLeavesOtherIntact(t *testing.T) {
	var console bytes.Buffer
	l := New(&console, nil)
	l.Log(Tick{Event: "x", Message: "hello"})
	assert.True(t, strings.Contains(console.String(), "hello"))
}
