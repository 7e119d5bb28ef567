package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/first5/first5/pkg/diagnostics"
)

// maxResponseSize limits the completion body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

const defaultMaxTokens = 1024

// ClientConfig configures the HTTP reasoning client.
type ClientConfig struct {
	// BaseURL is an OpenAI-compatible endpoint root, e.g. "https://api.openai.com/v1".
	BaseURL string

	// Model is the model identifier sent with every request.
	Model string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds one reasoning call end to end.
	Timeout time.Duration

	// MaxTokens is the default response cap when a request sets none.
	MaxTokens int
}

// Client calls an OpenAI-compatible chat-completions endpoint and validates
// the returned object against the per-request schema. It makes exactly one
// attempt per call; the stage's fallback handles failures, so there is no
// retry loop here.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	sink       diagnostics.Sink
	logger     *slog.Logger
}

func NewClient(config ClientConfig, sink diagnostics.Sink, logger *slog.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if sink == nil {
		sink = diagnostics.NopSink{}
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		sink:       sink,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateStructured performs one reasoning call and returns the raw JSON
// object, already validated against req.Schema.
func (c *Client) GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	startedAt := time.Now()
	c.sink.Emit(ctx, diagnostics.Record{
		Stage:     req.Stage,
		Status:    diagnostics.StatusStart,
		Model:     c.config.Model,
		Timestamp: startedAt,
	})

	payload, tokens, err := c.generate(ctx, req)
	durationMS := time.Since(startedAt).Milliseconds()

	if err != nil {
		c.sink.Emit(ctx, diagnostics.Record{
			Stage:      req.Stage,
			Status:     diagnostics.StatusFailure,
			Model:      c.config.Model,
			DurationMS: durationMS,
			Error:      err.Error(),
			Timestamp:  time.Now(),
		})

		return nil, &GatewayError{Stage: req.Stage, Err: err}
	}

	c.sink.Emit(ctx, diagnostics.Record{
		Stage:      req.Stage,
		Status:     diagnostics.StatusSuccess,
		Model:      c.config.Model,
		DurationMS: durationMS,
		Tokens:     tokens,
		Timestamp:  time.Now(),
	})

	return payload, nil
}

func (c *Client) generate(ctx context.Context, req StructuredRequest) (json.RawMessage, int, error) {
	if c.config.BaseURL == "" {
		return nil, 0, errors.New("no reasoning endpoint configured")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(), bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "Failed to close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if completion.Error != nil {
		return nil, 0, fmt.Errorf("endpoint error: %s", completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		return nil, 0, errors.New("response contains no choices")
	}

	extracted := ExtractJSON(completion.Choices[0].Message.Content)
	if extracted == "" {
		return nil, 0, errors.New("response contains no JSON object")
	}

	if err := ValidateAgainstSchema(req.Schema, []byte(extracted)); err != nil {
		return nil, 0, err
	}

	return json.RawMessage(extracted), completion.Usage.TotalTokens, nil
}

func (c *Client) buildURL() string {
	base := strings.TrimSuffix(c.config.BaseURL, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}

	return base + "/chat/completions"
}
