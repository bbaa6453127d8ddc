package notify

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSinkPlain(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf, true)

	sink.Notify(Success, "Transaction deleted")
	sink.Notify(Error, "Failed to load transactions")

	assert.Equal(t, "✓ Transaction deleted\n✗ Failed to load transactions\n", buf.String())
}

func TestRenderStyledKeepsMessage(t *testing.T) {
	out := Render(Error, "boom", false)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "✗")
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	sink.Notify(Error, "Failed to delete")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "error", entry["severity"])
	assert.Equal(t, "notify", entry["component"])
	assert.Equal(t, "Failed to delete", entry["message"])
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, nil, &b}

	m.Notify(Success, "saved")

	for _, r := range []*Recorder{&a, &b} {
		last, ok := r.Last()
		require.True(t, ok)
		assert.Equal(t, Entry{Severity: Success, Message: "saved"}, last)
	}
}

func TestRecorderEmpty(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)
	assert.Empty(t, r.Entries())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "severity(7)", Severity(7).String())
	assert.NotPanics(t, func() { Discard.Notify(Error, "x") })
}
