package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaGateway_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		if req.Model != "llama3.1" {
			t.Errorf("unexpected model: %s", req.Model)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    req.Model,
			Response: "The claim checks out.",
			Done:     true,
		})
	}))
	defer server.Close()

	gateway, err := NewOllamaGateway(Config{BaseURL: server.URL, Model: "llama3.1", Timeout: 5})
	if err != nil {
		t.Fatalf("create gateway: %v", err)
	}

	got, err := gateway.Generate(context.Background(), GenerateRequest{Prompt: "check"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "The claim checks out." {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestOllamaGateway_GenerateJSONFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Format != "json" {
			t.Errorf("expected json format, got %q", req.Format)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Response: `{"level": 85}`,
			Done:     true,
		})
	}))
	defer server.Close()

	gateway, err := NewOllamaGateway(Config{BaseURL: server.URL, Model: "llama3.1", Timeout: 5})
	if err != nil {
		t.Fatalf("create gateway: %v", err)
	}

	var out struct {
		Level int `json:"level"`
	}
	if err := gateway.GenerateJSON(context.Background(), GenerateRequest{Prompt: "score"}, &out); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}
	if out.Level != 85 {
		t.Errorf("expected level 85, got %d", out.Level)
	}
}

func TestOllamaGateway_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	gateway, err := NewOllamaGateway(Config{BaseURL: server.URL, Model: "missing", Timeout: 5})
	if err != nil {
		t.Fatalf("create gateway: %v", err)
	}

	_, err = gateway.Generate(context.Background(), GenerateRequest{Prompt: "check"})

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upstreamErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected status code: %d", upstreamErr.StatusCode)
	}
}

func TestOllamaGateway_RequiresModel(t *testing.T) {
	gateway, err := NewOllamaGateway(Config{Timeout: 5})
	if err != nil {
		t.Fatalf("create gateway: %v", err)
	}

	if _, err := gateway.Generate(context.Background(), GenerateRequest{Prompt: "check"}); err == nil {
		t.Error("expected error for missing model name")
	}
}
