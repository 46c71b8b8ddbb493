package factcheck

import (
	"context"
	"fmt"

	"github.com/claimwise/claimwise/internal/llm"
	"github.com/claimwise/claimwise/internal/model"
)

// ConfidenceClassifier scores a (claim, explanation) pair and maps the
// score to its tier.
type ConfidenceClassifier interface {
	Classify(ctx context.Context, statement, explanation string) (int, model.Classification, error)
}

// Classifier implements ConfidenceClassifier with one structured-output
// gateway call. No retry; a malformed response is a *llm.SchemaError.
type Classifier struct {
	gateway llm.Gateway
}

// NewClassifier creates a classifier on the given gateway.
func NewClassifier(gateway llm.Gateway) *Classifier {
	return &Classifier{gateway: gateway}
}

// confidenceLevel is the structured-output shape of the scoring call.
type confidenceLevel struct {
	Level int `json:"level"`
}

// Classify returns the 0-100 confidence score and its classification.
// Out-of-range scores are clamped into [0,100] before classification.
func (c *Classifier) Classify(ctx context.Context, statement, explanation string) (int, model.Classification, error) {
	var level confidenceLevel
	req := llm.GenerateRequest{
		System: classifierSystem,
		Prompt: fmt.Sprintf(classifierPrompt, statement, explanation),
	}
	if err := c.gateway.GenerateJSON(ctx, req, &level); err != nil {
		return 0, "", fmt.Errorf("classify confidence: %w", err)
	}

	confidence := level.Level
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return confidence, model.ClassifyConfidence(confidence), nil
}
