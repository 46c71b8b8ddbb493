package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGateway implements Gateway on top of the OpenAI Chat
// Completions API (or any compatible endpoint via BaseURL).
type OpenAIGateway struct {
	client *openai.Client
	config Config
}

// NewOpenAIGateway creates a new OpenAI-backed gateway.
func NewOpenAIGateway(config Config) (*OpenAIGateway, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIGateway{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (g *OpenAIGateway) Name() string {
	return "openai"
}

// Generate produces a plain text completion.
func (g *OpenAIGateway) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := g.complete(ctx, req, nil)
	if err != nil {
		return "", err
	}
	return resp, nil
}

// GenerateJSON produces a JSON-mode completion and decodes it into out.
func (g *OpenAIGateway) GenerateJSON(ctx context.Context, req GenerateRequest, out any) error {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	raw, err := g.complete(ctx, req, format)
	if err != nil {
		return err
	}
	return decodeJSON(raw, out)
}

func (g *OpenAIGateway) complete(ctx context.Context, req GenerateRequest, format *openai.ChatCompletionResponseFormat) (string, error) {
	model := req.Model
	if model == "" {
		model = g.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	timeout := time.Duration(g.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:          model,
		Messages:       messages,
		MaxTokens:      maxTokens,
		Temperature:    req.Temperature,
		ResponseFormat: format,
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Provider: "openai", Cause: fmt.Errorf("no choices in response")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Cause: err}
	}
	return &UpstreamError{Provider: "openai", Cause: err}
}
