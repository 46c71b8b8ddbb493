package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaGateway implements Gateway against a local Ollama server.
type OllamaGateway struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaGateway creates a new Ollama-backed gateway.
func NewOllamaGateway(config Config) (*OllamaGateway, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second // local models can be slow
	}

	return &OllamaGateway{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: config,
	}, nil
}

// Name returns the provider name.
func (g *OllamaGateway) Name() string {
	return "ollama"
}

// Generate produces a plain text completion.
func (g *OllamaGateway) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return g.complete(ctx, req, "")
}

// GenerateJSON requests JSON-format output and decodes it into out.
func (g *OllamaGateway) GenerateJSON(ctx context.Context, req GenerateRequest, out any) error {
	raw, err := g.complete(ctx, req, "json")
	if err != nil {
		return err
	}
	return decodeJSON(raw, out)
}

func (g *OllamaGateway) complete(ctx context.Context, req GenerateRequest, format string) (string, error) {
	model := req.Model
	if model == "" {
		model = g.config.Model
	}
	if model == "" {
		return "", fmt.Errorf("ollama model name is required")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	apiReq := ollamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.System,
		Format: format,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  maxTokens,
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", g.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Provider: "ollama", Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: "ollama", Cause: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return "", &UpstreamError{Provider: "ollama", StatusCode: httpResp.StatusCode, Cause: fmt.Errorf("%s", apiErr.Error)}
		}
		return "", &UpstreamError{Provider: "ollama", StatusCode: httpResp.StatusCode, Cause: fmt.Errorf("%s", string(respBody))}
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", &UpstreamError{Provider: "ollama", Cause: fmt.Errorf("unmarshal response: %w", err)}
	}

	return strings.TrimSpace(resp.Response), nil
}
