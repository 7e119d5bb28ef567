package reasoning

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/first5/first5/pkg/diagnostics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"status"},
		"properties": map[string]any{
			"status": map[string]any{"type": "string"},
		},
	}
}

func completionResponse(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"total_tokens": 42},
	}

	encoded, _ := json.Marshal(payload)

	return string(encoded)
}

// recordingSink captures emitted diagnostic records in order.
type recordingSink struct {
	records []diagnostics.Record
}

func (s *recordingSink) Emit(_ context.Context, record diagnostics.Record) {
	s.records = append(s.records, record)
}

func TestClientGenerateStructured(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("```json\n{\"status\":\"ready\"}\n```")))
	}))
	defer server.Close()

	sink := &recordingSink{}
	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Model:   "test-model",
		APIKey:  "secret",
	}, sink, testLogger())

	raw, err := client.GenerateStructured(t.Context(), StructuredRequest{
		Stage:     "interview-elicitation",
		Schema:    testSchema(),
		System:    "system prompt",
		Prompt:    "{}",
		MaxTokens: 256,
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ready"}`, string(raw))

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, 256, captured.MaxTokens)
	assert.Zero(t, captured.Temperature)

	require.Len(t, sink.records, 2)
	assert.Equal(t, diagnostics.StatusStart, sink.records[0].Status)
	assert.Equal(t, diagnostics.StatusSuccess, sink.records[1].Status)
	assert.Equal(t, 42, sink.records[1].Tokens)
}

func TestClientGenerateStructuredErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "endpoint error payload",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "no JSON in completion",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(completionResponse("すみません、わかりません。")))
			},
		},
		{
			name: "schema mismatch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(completionResponse(`{"unexpected":true}`)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			sink := &recordingSink{}
			client := NewClient(ClientConfig{BaseURL: server.URL, Model: "test-model"}, sink, testLogger())

			_, err := client.GenerateStructured(t.Context(), StructuredRequest{
				Stage:  "planner-breakdown",
				Schema: testSchema(),
				Prompt: "{}",
			})

			require.Error(t, err)

			var gatewayErr *GatewayError
			require.ErrorAs(t, err, &gatewayErr)
			assert.Equal(t, "planner-breakdown", gatewayErr.Stage)

			require.Len(t, sink.records, 2)
			assert.Equal(t, diagnostics.StatusFailure, sink.records[1].Status)
		})
	}
}

func TestClientWithoutEndpoint(t *testing.T) {
	client := NewClient(ClientConfig{}, nil, testLogger())

	_, err := client.GenerateStructured(t.Context(), StructuredRequest{
		Stage:  "intake-normalization",
		Schema: testSchema(),
	})

	assert.Error(t, err)
}

func TestDisabledGateway(t *testing.T) {
	_, err := Disabled{}.GenerateStructured(t.Context(), StructuredRequest{Stage: "coach-script"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestBuildURL(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://api.example.com/v1/"}, nil, testLogger())

	assert.Equal(t, "https://api.example.com/v1/chat/completions", client.buildURL())

	client = NewClient(ClientConfig{BaseURL: "https://api.example.com/v1/chat/completions"}, nil, testLogger())

	assert.Equal(t, "https://api.example.com/v1/chat/completions", client.buildURL())
}
