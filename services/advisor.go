package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"takemeto75/config"
	"takemeto75/metrics"
	"takemeto75/selector"
)

const advisorSystemPrompt = "You are a travel package curator. You choose one flight and one hotel " +
	"from the candidates you are given and answer with a single JSON object."

// OpenAIAdvisor completes selection prompts with a chat model.
type OpenAIAdvisor struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// NewOpenAIAdvisor returns nil when no key is configured.
func NewOpenAIAdvisor(cfg config.Advisor, m *metrics.Metrics) *OpenAIAdvisor {
	if cfg.OpenAIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return &OpenAIAdvisor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.OpenAIModel,
		limiter: rate.NewLimiter(rate.Limit(3), 5),
		metrics: m,
	}
}

func (a *OpenAIAdvisor) Name() string { return "openai" }

func (a *OpenAIAdvisor) Complete(ctx context.Context, prompt string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: advisorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   500,
	})
	if err != nil {
		a.metrics.Upstream(a.Name(), metrics.OutcomeError)
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		a.metrics.Upstream(a.Name(), metrics.OutcomeEmpty)
		return "", errors.New("openai returned no choices")
	}
	a.metrics.Upstream(a.Name(), metrics.OutcomeOK)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// NewAdvisor picks the configured advisor. The result is a nil interface
// when the selected provider has no credential, so callers can compare it
// against nil.
func NewAdvisor(cfg config.Advisor, m *metrics.Metrics) selector.Advisor {
	switch cfg.Provider {
	case "openai":
		if a := NewOpenAIAdvisor(cfg, m); a != nil {
			return a
		}
	case "huggingface":
		if a := NewHuggingFaceAdvisor(cfg, m); a != nil {
			return a
		}
	}
	return nil
}
