package llm

import (
	"fmt"
	"strings"

	"github.com/claimwise/claimwise/internal/model"
)

// NewGateway creates a gateway for the configured provider.
func NewGateway(config Config) (Gateway, error) {
	switch strings.ToLower(config.Provider) {
	case "openai", "":
		return NewOpenAIGateway(config)

	case "ollama":
		return NewOllamaGateway(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
