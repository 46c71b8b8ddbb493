package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/claimwise/claimwise/internal/model"
)

// Agent is an autonomous tool-using session: given a natural-language
// task it may issue web searches and page fetches, then synthesizes a
// final answer within a bounded number of tool invocations.
type Agent interface {
	Run(ctx context.Context, task string, maxSteps int) (*AgentResult, error)
}

// AgentResult is the outcome of one agent session.
type AgentResult struct {
	// Answer is the agent's final natural-language answer.
	Answer string

	// Sources lists every page the agent saw while working, whether it
	// ended up citing it or not.
	Sources []model.Source

	// Steps is the number of tool invocations actually used.
	Steps int
}

// chatCompleter is the slice of the OpenAI client the agent needs.
// *openai.Client satisfies it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ToolAgent implements Agent with an OpenAI tool-calling loop over a
// web_search tool and a fetch_page tool.
type ToolAgent struct {
	chat      chatCompleter
	model     string
	searcher  Searcher
	fetcher   *PageFetcher
	maxTokens int
}

// NewToolAgent creates an agent. fetcher may be nil to disable the
// fetch_page tool.
func NewToolAgent(chat chatCompleter, modelName string, searcher Searcher, fetcher *PageFetcher, maxTokens int) *ToolAgent {
	return &ToolAgent{
		chat:      chat,
		model:     modelName,
		searcher:  searcher,
		fetcher:   fetcher,
		maxTokens: maxTokens,
	}
}

const agentSystemPrompt = `You are a research assistant with access to web tools.
Use web_search to find relevant pages and fetch_page to read the ones
that matter. Gather evidence before answering. When you answer, cite
the URLs you relied on.`

// pageTextLimit caps how much page text is fed back to the model per
// fetch_page call.
const pageTextLimit = 4000

type webSearchArgs struct {
	Query string `json:"query"`
}

type fetchPageArgs struct {
	URL string `json:"url"`
}

// Run executes the tool loop. maxSteps bounds the total number of tool
// invocations across both tools; once spent, the agent is forced to
// answer from what it has.
func (a *ToolAgent) Run(ctx context.Context, task string, maxSteps int) (*AgentResult, error) {
	if maxSteps <= 0 {
		maxSteps = 1
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: agentSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: task},
	}

	result := &AgentResult{}
	seen := make(map[string]bool)

	// One round per tool batch plus the forced answer, with one spare
	// for providers that keep emitting tool calls anyway
	maxRounds := maxSteps + 2

	for rounds := 0; ; rounds++ {
		if rounds >= maxRounds {
			return nil, fmt.Errorf("agent produced no answer in %d rounds", rounds)
		}

		req := openai.ChatCompletionRequest{
			Model:     a.model,
			Messages:  messages,
			MaxTokens: a.maxTokens,
			Tools:     a.tools(),
		}
		if result.Steps >= maxSteps {
			// Budget spent: the model must answer from what it has.
			// Tools stay declared because tool_choice is rejected
			// without them
			req.ToolChoice = "none"
		}

		resp, err := a.chat.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("agent completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("agent completion: no choices in response")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			result.Answer = strings.TrimSpace(msg.Content)
			return result, nil
		}

		messages = append(messages, msg)

		for _, call := range msg.ToolCalls {
			if result.Steps >= maxSteps {
				messages = append(messages, toolReply(call.ID, `{"error": "tool budget exhausted, answer with what you have"}`))
				continue
			}
			result.Steps++

			output := a.invokeTool(ctx, call, result, seen)
			messages = append(messages, toolReply(call.ID, output))
		}
	}
}

func (a *ToolAgent) tools() []openai.Tool {
	tools := []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "web_search",
				Description: "Search the web and return result URLs, titles and snippets.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "The search query.",
						},
					},
					"required": []string{"query"},
				},
			},
		},
	}

	if a.fetcher != nil {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "fetch_page",
				Description: "Fetch a web page and return its readable text.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"url": map[string]any{
							"type":        "string",
							"description": "The page URL to fetch.",
						},
					},
					"required": []string{"url"},
				},
			},
		})
	}

	return tools
}

// invokeTool dispatches one tool call and returns the JSON payload fed
// back to the model. Tool failures are reported to the model, not
// raised: the agent should keep working with what it has.
func (a *ToolAgent) invokeTool(ctx context.Context, call openai.ToolCall, result *AgentResult, seen map[string]bool) string {
	switch call.Function.Name {
	case "web_search":
		var args webSearchArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError(fmt.Errorf("bad arguments: %w", err))
		}

		results, err := a.searcher.Search(ctx, args.Query)
		if err != nil {
			return toolError(err)
		}

		for _, r := range results {
			addSource(result, seen, model.Source{URL: r.URL, Title: r.Title})
		}

		payload, err := json.Marshal(results)
		if err != nil {
			return toolError(err)
		}
		return string(payload)

	case "fetch_page":
		var args fetchPageArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError(fmt.Errorf("bad arguments: %w", err))
		}
		if a.fetcher == nil {
			return toolError(fmt.Errorf("fetch_page is not available"))
		}

		page, err := a.fetcher.Fetch(ctx, args.URL)
		if err != nil {
			return toolError(err)
		}

		addSource(result, seen, model.Source{URL: page.URL, Title: page.Title})

		text := page.Text
		if len(text) > pageTextLimit {
			text = text[:pageTextLimit]
		}
		payload, err := json.Marshal(map[string]string{
			"url":   page.URL,
			"title": page.Title,
			"text":  text,
		})
		if err != nil {
			return toolError(err)
		}
		return string(payload)

	default:
		return toolError(fmt.Errorf("unknown tool: %s", call.Function.Name))
	}
}

func addSource(result *AgentResult, seen map[string]bool, src model.Source) {
	if src.URL == "" || seen[src.URL] {
		return
	}
	seen[src.URL] = true
	result.Sources = append(result.Sources, src)
}

func toolReply(callID, content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		ToolCallID: callID,
	}
}

func toolError(err error) string {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(payload)
}
