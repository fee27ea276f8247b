package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"imperium/internal/platform/httpclient"
	"imperium/internal/ports/llm"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"

	completionsPath = "/chat/completions"
)

// Config del cliente OpenAI. APIKey vacía => Configured() == false y el
// handler responde 503 sin tocar la red.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Transport opcional (tests).
	Transport http.RoundTripper
}

type Client struct {
	apiKey string
	model  string
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, cfg.Timeout, cfg.Transport)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
		http:   hc,
	}, nil
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete hace una única llamada a /chat/completions.
// No loguea ni el prompt ni la respuesta.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if !c.Configured() {
		return "", llm.ErrNotConfigured
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var out chatResponse
	err := c.http.DoJSON(ctx, http.MethodPost, completionsPath, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if msg := httpErr.ProviderMessage(); msg != "" {
				return "", errors.New(msg)
			}
		}
		return "", err
	}

	if out.Error != nil && out.Error.Message != "" {
		return "", fmt.Errorf("openai: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil || *out.Choices[0].Message.Content == "" {
		return "", llm.ErrEmptyCompletion
	}
	return *out.Choices[0].Message.Content, nil
}
