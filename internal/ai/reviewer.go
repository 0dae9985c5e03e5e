package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/xab-mack/solpipe/internal/model"
	"github.com/xab-mack/solpipe/internal/util"
)

// snippetLimit bounds how much source is sent for context.
const snippetLimit = 1500

// ProviderError reports a backend network, auth or response-parse failure.
// The pipeline treats it as retryable.
type ProviderError struct {
	Engine string
	Err    error
}

func (e *ProviderError) Error() string { return e.Engine + " review failed: " + e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }

// chatClient is the slice of the OpenAI client the reviewer uses, kept narrow
// so tests can stub the backend.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Mode selects how the reviewer drives the model.
type Mode string

const (
	// ModeDirect asks for findings in a single completion.
	ModeDirect Mode = "direct"
	// ModeAgent adds a second verification turn that prunes findings the
	// model cannot defend against the source.
	ModeAgent Mode = "agent"
)

// Reviewer asks an OpenAI-compatible backend to audit a parsed contract.
type Reviewer struct {
	client chatClient
	model  string
	mode   Mode
	log    *slog.Logger
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Mode    Mode
}

func NewReviewer(opts Options, log *slog.Logger) (*Reviewer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("AI review requested but no API key configured")
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Mode == "" {
		opts.Mode = ModeDirect
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Reviewer{client: openai.NewClientWithConfig(cfg), model: opts.Model, mode: opts.Mode, log: log}, nil
}

func (r *Reviewer) Engine() string { return fmt.Sprintf("%s (%s)", r.model, r.mode) }

func (r *Reviewer) Review(ctx context.Context, contract *model.Contract, static map[string][]model.Finding) ([]model.Finding, error) {
	prompt := BuildPrompt(contract, static)
	content, err := r.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a Solidity security auditor."},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		return nil, err
	}
	findings, err := ParseFindings(content)
	if err != nil {
		return nil, &ProviderError{Engine: r.model, Err: err}
	}

	if r.mode == ModeAgent && len(findings) > 0 {
		findings, err = r.verify(ctx, prompt, content, findings)
		if err != nil {
			// keep the first-pass findings if the verification turn fails
			r.log.Debug("verification turn failed, keeping first pass", "err", err)
		}
	}
	return findings, nil
}

// verify replays the findings back to the model and keeps only those it
// still stands behind.
func (r *Reviewer) verify(ctx context.Context, prompt, firstPass string, findings []model.Finding) ([]model.Finding, error) {
	content, err := r.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a Solidity security auditor verifying a prior review."},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
		{Role: openai.ChatMessageRoleAssistant, Content: firstPass},
		{Role: openai.ChatMessageRoleUser, Content: "Re-examine each finding against the source. Reply with the same JSON array, dropping any finding you can no longer justify."},
	})
	if err != nil {
		return findings, err
	}
	verified, err := ParseFindings(content)
	if err != nil {
		return findings, err
	}
	return verified, nil
}

func (r *Reviewer) complete(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    msgs,
		MaxTokens:   1500,
		Temperature: 0.1,
	})
	if err != nil {
		return "", &ProviderError{Engine: r.model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Engine: r.model, Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt assembles the audit request from the contract snippet and the
// static findings gathered earlier in the pipeline.
func BuildPrompt(contract *model.Contract, static map[string][]model.Finding) string {
	tools := make([]string, 0, len(static))
	for tool := range static {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	var summary strings.Builder
	for _, tool := range tools {
		for _, f := range static[tool] {
			fmt.Fprintf(&summary, "- [%s] %s at %s\n", f.Severity, f.Title, f.Location)
		}
	}
	if summary.Len() == 0 {
		summary.WriteString("No static findings.\n")
	}

	snippet := util.Truncate(contract.Source, snippetLimit)
	return fmt.Sprintf(
		"Analyze the Solidity contract `%s` for security vulnerabilities.\n\n"+
			"Static Analysis Summary:\n%s\n"+
			"Source Code Snippet:\n```solidity\n%s\n```\n\n"+
			"Provide a JSON array of findings with fields:\n"+
			"`severity`, `title`, `description`, `location`, `confidence`, `reasoning`, `suggestedFix`.",
		contract.Name, summary.String(), snippet)
}

// ParseFindings extracts the JSON findings array from a model response that
// may be wrapped in prose or a code fence.
func ParseFindings(content string) ([]model.Finding, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var raw []struct {
		Severity     string  `json:"severity"`
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Location     string  `json:"location"`
		Confidence   float64 `json:"confidence"`
		Reasoning    string  `json:"reasoning"`
		SuggestedFix string  `json:"suggestedFix"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	out := make([]model.Finding, 0, len(raw))
	for _, f := range raw {
		out = append(out, model.Finding{
			Source:       "ai",
			Severity:     model.ParseSeverity(f.Severity),
			Title:        f.Title,
			Description:  f.Description,
			Location:     f.Location,
			Confidence:   f.Confidence,
			Reasoning:    f.Reasoning,
			SuggestedFix: f.SuggestedFix,
		})
	}
	return out, nil
}
