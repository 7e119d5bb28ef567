package diagnostics

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestChannelSinkRoundTrip(t *testing.T) {
	sink, subscriber := NewChannelSink(testLogger())
	defer func() {
		require.NoError(t, subscriber.Close())
	}()

	messages, err := subscriber.Subscribe(t.Context(), DefaultTopic)
	require.NoError(t, err)

	record := Record{
		Stage:      "planner-breakdown",
		Status:     StatusSuccess,
		Model:      "test-model",
		DurationMS: 120,
		Tokens:     42,
		Timestamp:  time.Now().UTC(),
	}

	sink.Emit(t.Context(), record)

	select {
	case msg := <-messages:
		assert.Equal(t, "planner-breakdown", msg.Metadata.Get("stage"))
		assert.Equal(t, string(StatusSuccess), msg.Metadata.Get("status"))

		var decoded Record
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, record.Stage, decoded.Stage)
		assert.Equal(t, record.Tokens, decoded.Tokens)

		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no diagnostic message received")
	}
}

func TestSlogSink(t *testing.T) {
	sink := NewSlogSink(testLogger())

	// Must tolerate every status without panicking.
	for _, status := range []Status{StatusStart, StatusSuccess, StatusFailure} {
		sink.Emit(t.Context(), Record{
			Stage:     "intake-normalization",
			Status:    status,
			Error:     "boom",
			Timestamp: time.Now(),
		})
	}
}

func TestNopSink(t *testing.T) {
	NopSink{}.Emit(t.Context(), Record{Stage: "coach-script"})
}
