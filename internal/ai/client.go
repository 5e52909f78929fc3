package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to a hosted text model.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Classify(ctx context.Context, text string, labels []string) (map[string]float64, error)
}

var (
	ErrEmptyResponse = errors.New("ai: empty response")
	ErrNotConfigured = errors.New("ai: client not configured")
)

type GenerationParams struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

type ClientConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	ClassifierModel string
	// ChatModel switches Generate to the messages based chat endpoint.
	ChatModel bool
	Params    GenerationParams
}

// HTTPClient calls a Hugging Face style inference API.
type HTTPClient struct {
	cfg        ClientConfig
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(cfg ClientConfig, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		cfg:        cfg,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type textRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters"`
}

type textResponse struct {
	GeneratedText string `json:"generated_text"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" || c.cfg.Model == "" {
		return "", ErrNotConfigured
	}

	if c.cfg.ChatModel {
		req := chatRequest{
			Model: c.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: "You are a precise assistant for a credential platform. Answer only in the requested format."},
				{Role: "user", Content: prompt},
			},
			Temperature: c.cfg.Params.Temperature,
			MaxTokens:   c.cfg.Params.MaxTokens,
			TopP:        c.cfg.Params.TopP,
		}
		var resp chatResponse
		if err := c.post(ctx, c.baseURL+"/v1/chat/completions", req, &resp); err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	}

	req := textRequest{
		Inputs: prompt,
		Parameters: map[string]any{
			"temperature":      c.cfg.Params.Temperature,
			"max_new_tokens":   c.cfg.Params.MaxTokens,
			"top_p":            c.cfg.Params.TopP,
			"return_full_text": false,
		},
	}
	var resp []textResponse
	if err := c.post(ctx, c.baseURL+"/models/"+c.cfg.Model, req, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 || strings.TrimSpace(resp[0].GeneratedText) == "" {
		return "", ErrEmptyResponse
	}
	return resp[0].GeneratedText, nil
}

// Classify runs zero shot classification and returns a score per label.
// Labels are scored independently (multi label mode).
func (c *HTTPClient) Classify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	if c.baseURL == "" || c.cfg.ClassifierModel == "" {
		return nil, ErrNotConfigured
	}

	req := textRequest{
		Inputs: text,
		Parameters: map[string]any{
			"candidate_labels": labels,
			"multi_label":      true,
		},
	}
	var resp classifyResponse
	if err := c.post(ctx, c.baseURL+"/models/"+c.cfg.ClassifierModel, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Scores) {
		return nil, ErrEmptyResponse
	}

	scores := make(map[string]float64, len(resp.Labels))
	for i, l := range resp.Labels {
		scores[l] = resp.Scores[i]
	}
	return scores, nil
}

func (c *HTTPClient) post(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode ai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create ai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read ai response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("ai api status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("ai api status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode ai response: %w", err)
	}
	return nil
}
