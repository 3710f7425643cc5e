package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client is the minimal generation-service surface the orchestrator needs:
// structured JSON extraction and free-text completion.
type Client interface {
	Name() string
	// GenerateJSON appends the JSON-encoded input to the prompt, requests a
	// JSON response, and returns the raw bytes without validating them.
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	// Complete returns a plain prose completion for a system/user pair.
	Complete(ctx context.Context, system, user string) (string, error)
	Close() error
}

// ErrInvalidJSON reports that the model produced no usable JSON payload.
var ErrInvalidJSON = errors.New("llm: model returned invalid JSON")
