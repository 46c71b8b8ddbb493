package factcheck

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/claimwise/claimwise/internal/llm"
	"github.com/claimwise/claimwise/internal/model"
	"github.com/claimwise/claimwise/internal/search"
)

func newTestPipeline(gateway llm.Gateway, agent search.Agent) *Pipeline {
	verifier := NewVerifier(agent, gateway, 3)
	classifier := NewClassifier(gateway)
	coordinator := NewCoordinator(verifier, classifier, 0)
	return NewPipeline(NewExtractor(gateway), coordinator)
}

func TestPipelineEndToEnd(t *testing.T) {
	gateway := &stubGateway{
		rules: []stubRule{
			{"Extract every factual affirmation", `{"facts": ["Google has revenue of 10 dollars."]}`},
			{"Agent findings", `{
				"explanation": "Public filings show revenue in the hundreds of billions.",
				"supporting": [],
				"contradicting": ["https://example.com/report"],
				"nuanced": []
			}`},
			{"score how confident", `{"level": 5}`},
		},
	}
	agent := &stubAgent{
		result: &search.AgentResult{
			Answer:  "The claim is off by many orders of magnitude.",
			Sources: []model.Source{{URL: "https://example.com/report", Title: "Revenue report"}},
			Steps:   1,
		},
	}

	pipeline := newTestPipeline(gateway, agent)

	records, err := pipeline.CheckText(context.Background(), "Google has revenue of 10 dollars.")
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Statement != "Google has revenue of 10 dollars." {
		t.Errorf("unexpected statement: %q", rec.Statement)
	}
	if rec.Explanation == "" {
		t.Error("expected non-empty explanation")
	}
	if rec.Confidence != 5 {
		t.Errorf("confidence = %d, want 5", rec.Confidence)
	}
	if rec.Classification != model.ClassificationRed {
		t.Errorf("classification = %s, want red", rec.Classification)
	}
	if len(rec.Sources.Contradicting) != 1 {
		t.Errorf("expected 1 contradicting source, got %v", rec.Sources.Contradicting)
	}
}

func TestPipelineExtractionFailureIsFatal(t *testing.T) {
	gateway := &stubGateway{
		err: &llm.SchemaError{Raw: "not json", Cause: errors.New("invalid character")},
	}
	agent := &stubAgent{}

	pipeline := newTestPipeline(gateway, agent)

	_, err := pipeline.CheckText(context.Background(), "Some text with claims.")
	if err == nil {
		t.Fatal("expected error")
	}

	var schemaErr *llm.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("expected *llm.SchemaError in chain, got %v", err)
	}
	// Nothing downstream may run when extraction fails
	if got := atomic.LoadInt32(&agent.runs); got != 0 {
		t.Errorf("expected 0 agent runs, got %d", got)
	}
}

func TestPipelineNoClaims(t *testing.T) {
	gateway := &stubGateway{
		rules: []stubRule{
			{"Extract every factual affirmation", `{"facts": []}`},
		},
	}
	agent := &stubAgent{}

	pipeline := newTestPipeline(gateway, agent)

	records, err := pipeline.CheckText(context.Background(), "How are you today?")
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}
	if records == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %v", records)
	}
	if got := atomic.LoadInt32(&agent.runs); got != 0 {
		t.Errorf("expected 0 agent runs for zero claims, got %d", got)
	}
}

func TestPipelineUsesLatestUserTurn(t *testing.T) {
	gateway := &stubGateway{
		rules: []stubRule{
			{"Extract every factual affirmation", `{"facts": []}`},
		},
	}
	pipeline := newTestPipeline(gateway, &stubAgent{})

	conv := model.NewConversation("first message")
	conv.Append(model.NewTurn(model.RoleAssistant, "assistant reply"))
	conv.Append(model.NewTurn(model.RoleHuman, ""))

	// Latest human turn is empty, so extraction is skipped entirely
	records, err := pipeline.Run(context.Background(), conv)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %v", records)
	}
	if got := atomic.LoadInt32(&gateway.calls); got != 0 {
		t.Errorf("expected no gateway calls for empty latest turn, got %d", got)
	}
}
