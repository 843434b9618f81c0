package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIOption configures the OpenAI provider.
type OpenAIOption func(*OpenAI)

// WithModel overrides the chat model.
func WithModel(model string) OpenAIOption {
	return func(p *OpenAI) {
		if model = strings.TrimSpace(model); model != "" {
			p.model = model
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) OpenAIOption {
	return func(p *OpenAI) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFallback serves suggestions from fallback when the API call fails.
func WithFallback(fallback Provider) OpenAIOption {
	return func(p *OpenAI) {
		p.fallback = fallback
	}
}

// ChatCompleter is the subset of the go-openai client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI asks a chat model for candidate texts, one per line.
type OpenAI struct {
	client   ChatCompleter
	model    string
	logger   *zap.Logger
	fallback Provider
}

// NewOpenAI builds a provider from an API key and optional base URL.
func NewOpenAI(apiKey, baseURL string, opts ...OpenAIOption) (*OpenAI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("suggest: openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewOpenAIWithClient(openai.NewClientWithConfig(cfg), opts...), nil
}

// NewOpenAIWithClient wraps an existing chat client.
func NewOpenAIWithClient(client ChatCompleter, opts ...OpenAIOption) *OpenAI {
	p := &OpenAI{
		client: client,
		model:  defaultOpenAIModel,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Suggest implements Provider.
func (p *OpenAI) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(limit, req.Locale)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
	})
	if err != nil {
		p.logger.Warn("suggestion request failed",
			zap.String("entity", req.Entity),
			zap.String("field", req.Field),
			zap.Error(err))
		if p.fallback != nil {
			return p.fallback.Suggest(ctx, req)
		}
		return nil, fmt.Errorf("suggest: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrNoSuggestions)
	}

	out := parseLines(resp.Choices[0].Message.Content, limit)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrNoSuggestions)
	}
	return out, nil
}

func systemPrompt(limit int, locale string) string {
	prompt := fmt.Sprintf("You write short catalogue copy for an e-commerce admin. Reply with %d alternatives, one per line, without numbering.", limit)
	if locale = strings.TrimSpace(locale); locale != "" {
		prompt += " Write in the language with code " + locale + "."
	}
	return prompt
}

func userPrompt(req Request) string {
	return fmt.Sprintf("Write the %s of the %s %q.", strings.ReplaceAll(req.Field, "_", " "), req.Entity, strings.TrimSpace(req.Seed))
}

func parseLines(content string, limit int) []Suggestion {
	var out []Suggestion
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789.) "))
		if line == "" {
			continue
		}
		out = append(out, Suggestion{ID: len(out) + 1, Title: line})
		if len(out) == limit {
			break
		}
	}
	return out
}
