package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
)

const hfInferenceURL = "https://api-inference.huggingface.co/models/"

// HuggingFaceAdvisor completes prompts with a hosted instruct model.
type HuggingFaceAdvisor struct {
	upstream
	token   string
	baseURL string
	model   string
}

// NewHuggingFaceAdvisor returns nil when no token is configured.
func NewHuggingFaceAdvisor(cfg config.Advisor, m *metrics.Metrics) *HuggingFaceAdvisor {
	if cfg.HFToken == "" {
		return nil
	}
	return &HuggingFaceAdvisor{
		upstream: newUpstream("huggingface", 0, logger.NewNop(), m),
		token:    cfg.HFToken,
		baseURL:  hfInferenceURL,
		model:    cfg.HFModel,
	}
}

func (c *HuggingFaceAdvisor) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// Complete wraps the prompt in the instruct markers and returns the
// generated continuation.
func (c *HuggingFaceAdvisor) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := hfRequest{
		Inputs: "[INST] " + advisorSystemPrompt + "\n\n" + prompt + " [/INST]",
		Parameters: hfParameters{
			MaxNewTokens:   400,
			Temperature:    0.2,
			ReturnFullText: false,
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.token}

	var resp hfResponse
	err := c.postJSON(ctx, c.baseURL+c.model, headers, reqBody, &resp)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusServiceUnavailable {
		return "", fmt.Errorf("model %s is loading: %w", c.model, err)
	}
	if err != nil {
		return "", err
	}

	if len(resp) == 0 || strings.TrimSpace(resp[0].GeneratedText) == "" {
		return "", errors.New("empty response from model")
	}
	return resp[0].GeneratedText, nil
}
