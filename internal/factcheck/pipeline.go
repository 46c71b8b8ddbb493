package factcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/claimwise/claimwise/internal/cache"
	"github.com/claimwise/claimwise/internal/llm"
	"github.com/claimwise/claimwise/internal/model"
	"github.com/claimwise/claimwise/internal/search"
	"github.com/claimwise/claimwise/internal/util"
	"github.com/claimwise/claimwise/internal/worker"
)

// Pipeline sequences claim extraction and the verification fan-out:
// extract claims, then verify and classify each one. It holds no state
// between runs; every invocation is a fresh pass.
type Pipeline struct {
	extractor   *Extractor
	coordinator *Coordinator
}

// NewPipeline assembles a pipeline from its two stages.
func NewPipeline(extractor *Extractor, coordinator *Coordinator) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		coordinator: coordinator,
	}
}

// BuildPipeline wires a complete pipeline from configuration: gateway,
// search agent with its tools, extractor, verifier, classifier and
// fan-out coordinator. All credentials come from cfg; nothing is
// embedded.
func BuildPipeline(cfg *model.Config) (*Pipeline, error) {
	gateway, err := llm.NewGateway(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	limiter := worker.NewLimiter(cfg.Search.RatePerSecond, cfg.Search.RateBurst)

	var searcher search.Searcher = search.NewDuckDuckGoSearcher(
		cfg.Search.UserAgent, cfg.Search.Timeout, cfg.Search.MaxResults, limiter)
	if cfg.Cache.Enabled {
		store := cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		searcher = search.NewCachedSearcher(searcher, store, cfg.Cache.TTL)
	}

	var robots *util.RobotsChecker
	if cfg.Search.RespectRobots {
		robots = util.NewRobotsChecker(cfg.Search.UserAgent, cfg.Search.Timeout)
	}
	fetcher := search.NewPageFetcher(
		cfg.Search.UserAgent, cfg.Search.Timeout, cfg.Search.MaxBodyBytes, limiter, robots)

	agentClient, agentModel, err := agentChatClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create agent client: %w", err)
	}
	agent := search.NewToolAgent(agentClient, agentModel, searcher, fetcher, cfg.LLM.MaxTokens)

	verifier := NewVerifier(agent, gateway, cfg.Search.MaxSteps)
	classifier := NewClassifier(gateway)
	coordinator := NewCoordinator(verifier, classifier, cfg.Concurrency.MaxCheckers)

	return NewPipeline(NewExtractor(gateway), coordinator), nil
}

// agentChatClient builds the tool-calling chat client for the search
// agent. Ollama is reached through its OpenAI-compatible endpoint.
func agentChatClient(cfg model.LLMConfig) (*openai.Client, string, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, "", fmt.Errorf("OpenAI API key is required")
		}
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		agentModel := cfg.Model
		if agentModel == "" {
			agentModel = openai.GPT4oMini
		}
		return openai.NewClientWithConfig(clientConfig), agentModel, nil

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		clientConfig := openai.DefaultConfig("ollama")
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
		if cfg.Model == "" {
			return nil, "", fmt.Errorf("ollama model name is required")
		}
		return openai.NewClientWithConfig(clientConfig), cfg.Model, nil

	default:
		return nil, "", fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

// Run executes the pipeline over a conversation. Only the latest human
// turn feeds extraction. Extraction failure is fatal to the request;
// per-claim failures are contained by the coordinator.
func (p *Pipeline) Run(ctx context.Context, conv model.Conversation) ([]model.VerificationRecord, error) {
	claims, err := p.extractor.Extract(ctx, conv.LatestUserContent())
	if err != nil {
		return nil, err
	}

	if len(claims) == 0 {
		return []model.VerificationRecord{}, nil
	}

	return p.coordinator.CheckAll(ctx, claims), nil
}

// CheckText is the single-document entry point: the text becomes the
// sole human turn of a fresh conversation.
func (p *Pipeline) CheckText(ctx context.Context, text string) ([]model.VerificationRecord, error) {
	return p.Run(ctx, model.NewConversation(text))
}
