// Package reasoning provides the structured-reasoning gateway: given a JSON
// schema and a prompt, it returns a schema-conforming object or fails. The
// pipeline treats network failures, timeouts, and schema mismatches
// identically: any error switches the calling stage to its heuristic fallback.
package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// StructuredRequest describes one structured-output reasoning call.
type StructuredRequest struct {
	// Stage identifies the caller for diagnostics.
	Stage string

	// Schema is the JSON schema the response must conform to.
	Schema map[string]any

	// System carries the stage's system instructions.
	System string

	// Prompt is the JSON-marshalled stage context.
	Prompt string

	// MaxTokens caps the response length. 0 uses the gateway default.
	MaxTokens int
}

// Gateway produces schema-conforming structured output from a prompt.
type Gateway interface {
	GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
}

// GatewayError wraps any reasoning-call failure so stages can log the cause
// while falling back uniformly.
type GatewayError struct {
	Stage string
	Err   error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("reasoning call for stage %s failed: %v", e.Stage, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ErrDisabled is returned by the Disabled gateway.
var ErrDisabled = errors.New("reasoning gateway disabled")

// Disabled always fails, which forces every stage onto its heuristic
// fallback. Offline runs use it instead of a real client.
type Disabled struct{}

func (Disabled) GenerateStructured(_ context.Context, req StructuredRequest) (json.RawMessage, error) {
	return nil, &GatewayError{Stage: req.Stage, Err: ErrDisabled}
}
