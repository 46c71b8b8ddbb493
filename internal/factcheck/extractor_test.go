package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/claimwise/claimwise/internal/llm"
)

// stubRule maps a prompt substring to the raw JSON the stub returns.
type stubRule struct {
	needle string
	raw    string
}

// stubGateway answers GenerateJSON calls by prompt substring. Rules are
// checked in order so routing is deterministic.
type stubGateway struct {
	rules []stubRule
	err   error
	calls int32
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	return "", errors.New("stub gateway: Generate not scripted")
}

func (g *stubGateway) GenerateJSON(ctx context.Context, req llm.GenerateRequest, out any) error {
	atomic.AddInt32(&g.calls, 1)
	if g.err != nil {
		return g.err
	}
	for _, rule := range g.rules {
		if strings.Contains(req.Prompt, rule.needle) {
			return json.Unmarshal([]byte(rule.raw), out)
		}
	}
	return fmt.Errorf("stub gateway: no rule matches prompt %q", req.Prompt)
}

func TestExtractorExtract(t *testing.T) {
	gateway := &stubGateway{
		rules: []stubRule{
			{"Extract every factual affirmation", `{"facts": ["The sky is blue.", "Water boils at 100C."]}`},
		},
	}
	extractor := NewExtractor(gateway)

	claims, err := extractor.Extract(context.Background(), "The sky is blue and water boils at 100C.")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0] != "The sky is blue." {
		t.Errorf("unexpected first claim: %q", claims[0])
	}
}

func TestExtractorEmptyInput(t *testing.T) {
	gateway := &stubGateway{}
	extractor := NewExtractor(gateway)

	for _, input := range []string{"", "   ", "\n\t"} {
		claims, err := extractor.Extract(context.Background(), input)
		if err != nil {
			t.Errorf("Extract(%q) failed: %v", input, err)
		}
		if len(claims) != 0 {
			t.Errorf("Extract(%q) returned claims: %v", input, claims)
		}
	}

	if got := atomic.LoadInt32(&gateway.calls); got != 0 {
		t.Errorf("expected no gateway calls for empty input, got %d", got)
	}
}

func TestExtractorSchemaError(t *testing.T) {
	gateway := &stubGateway{
		err: &llm.SchemaError{Raw: "not json", Cause: errors.New("invalid character")},
	}
	extractor := NewExtractor(gateway)

	_, err := extractor.Extract(context.Background(), "Some text.")
	if err == nil {
		t.Fatal("expected error")
	}

	var schemaErr *llm.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("expected *llm.SchemaError in chain, got %v", err)
	}
}
