package factcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimwise/claimwise/internal/llm"
	"github.com/claimwise/claimwise/internal/model"
)

// Extractor turns one input document into an ordered list of discrete
// factual claims via a single structured-output gateway call. There are
// no local heuristics: extraction quality is the model's job.
type Extractor struct {
	gateway llm.Gateway
}

// NewExtractor creates an extractor on the given gateway.
func NewExtractor(gateway llm.Gateway) *Extractor {
	return &Extractor{gateway: gateway}
}

// Extract returns the claims found in text, possibly none. A response
// the gateway cannot coerce into the declared shape fails with a
// *llm.SchemaError; there is no local fallback.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var list model.ClaimList
	req := llm.GenerateRequest{
		System: extractorSystem,
		Prompt: fmt.Sprintf(extractorPrompt, text),
	}
	if err := e.gateway.GenerateJSON(ctx, req, &list); err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	return list.Facts, nil
}
