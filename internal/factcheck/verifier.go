package factcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/claimwise/claimwise/internal/llm"
	"github.com/claimwise/claimwise/internal/model"
	"github.com/claimwise/claimwise/internal/search"
)

// ClaimVerifier verifies a single claim and reports an explanation with
// attributed sources.
type ClaimVerifier interface {
	Verify(ctx context.Context, claim string) (*Verification, error)
}

// Verification is the outcome of verifying one claim.
type Verification struct {
	Explanation string
	Sources     model.SourceSet
}

// Verifier implements ClaimVerifier: it delegates evidence gathering to
// the search agent, then asks the gateway for a structured verdict. It
// does not isolate failures; the fan-out coordinator does.
type Verifier struct {
	agent    search.Agent
	gateway  llm.Gateway
	maxSteps int
}

// NewVerifier creates a verifier. maxSteps caps the agent's tool budget
// per claim.
func NewVerifier(agent search.Agent, gateway llm.Gateway, maxSteps int) *Verifier {
	if maxSteps <= 0 {
		maxSteps = 3
	}
	return &Verifier{
		agent:    agent,
		gateway:  gateway,
		maxSteps: maxSteps,
	}
}

// verdict is the structured-output shape of the summarization call. The
// three URL lists are restricted to the agent's retrieved sources.
type verdict struct {
	Explanation   string   `json:"explanation"`
	Supporting    []string `json:"supporting"`
	Contradicting []string `json:"contradicting"`
	Nuanced       []string `json:"nuanced"`
}

// Verify runs the agent on the fact-checking task, then summarizes its
// findings into an explanation and a source partition.
func (v *Verifier) Verify(ctx context.Context, claim string) (*Verification, error) {
	task := fmt.Sprintf(verifyTask, claim)

	agentResult, err := v.agent.Run(ctx, task, v.maxSteps)
	if err != nil {
		return nil, fmt.Errorf("search agent: %w", err)
	}

	var vd verdict
	req := llm.GenerateRequest{
		System: verdictSystem,
		Prompt: fmt.Sprintf(verdictPrompt, claim, agentResult.Answer, formatAllowedURLs(agentResult.Sources)),
	}
	if err := v.gateway.GenerateJSON(ctx, req, &vd); err != nil {
		return nil, fmt.Errorf("summarize findings: %w", err)
	}

	return &Verification{
		Explanation: strings.TrimSpace(vd.Explanation),
		Sources:     partitionSources(vd, agentResult.Sources),
	}, nil
}

// formatAllowedURLs renders the citation allowlist for the verdict
// prompt.
func formatAllowedURLs(sources []model.Source) string {
	if len(sources) == 0 {
		return "(no sources were retrieved)"
	}

	var sb strings.Builder
	for _, src := range sources {
		sb.WriteString("- ")
		sb.WriteString(src.URL)
		if src.Title != "" {
			sb.WriteString(" (")
			sb.WriteString(src.Title)
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// partitionSources maps the verdict's cited URLs back to retrieved
// sources. URLs outside the allowlist are dropped rather than trusted:
// the model may not invent citations.
func partitionSources(vd verdict, retrieved []model.Source) model.SourceSet {
	byURL := make(map[string]model.Source, len(retrieved))
	for _, src := range retrieved {
		byURL[src.URL] = src
	}

	set := model.EmptySourceSet()
	set.Supporting = lookupSources(vd.Supporting, byURL)
	set.Contradicting = lookupSources(vd.Contradicting, byURL)
	set.Nuanced = lookupSources(vd.Nuanced, byURL)
	return set
}

func lookupSources(urls []string, byURL map[string]model.Source) []model.Source {
	out := []model.Source{}
	for _, u := range urls {
		if src, ok := byURL[u]; ok {
			out = append(out, src)
		}
	}
	return out
}
