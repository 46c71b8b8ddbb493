package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Gateway is the uniform interface to a hosted text-generation service.
// Generate returns free text; GenerateJSON constrains the model to a
// caller-declared shape and decodes into out.
type Gateway interface {
	// Name returns the provider name.
	Name() string

	// Generate produces a plain text completion.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GenerateJSON produces a completion constrained to JSON and decodes
	// it into out. A response that cannot be coerced into out fails with
	// a *SchemaError.
	GenerateJSON(ctx context.Context, req GenerateRequest, out any) error
}

// GenerateRequest carries one completion call.
type GenerateRequest struct {
	// System is the optional system instruction.
	System string

	// Prompt is the user prompt.
	Prompt string

	// Model overrides the provider's configured model when set.
	Model string

	// MaxTokens limits the response length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling. The zero value is used as-is:
	// fact-checking wants deterministic output.
	Temperature float32
}

// Config holds gateway provider configuration. Credentials come from the
// caller; providers never read secrets themselves.
type Config struct {
	Provider  string // "openai" or "ollama"
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// SchemaError reports a structured-output call whose response could not
// be coerced into the declared shape. It is never retried.
type SchemaError struct {
	Raw   string // the raw model output, for diagnostics
	Cause error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response does not match requested schema: %v", e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// UpstreamError reports a network-level or non-200 failure from the
// hosted model provider.
type UpstreamError struct {
	Provider   string
	StatusCode int // zero when the request never completed
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream error (status %d): %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// decodeJSON strips markdown fences the model may wrap around its JSON
// and decodes into out, converting failures to *SchemaError.
func decodeJSON(raw string, out any) error {
	cleaned := stripCodeFence(raw)
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(out); err != nil {
		return &SchemaError{Raw: raw, Cause: err}
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimPrefix(trimmed, "json")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
