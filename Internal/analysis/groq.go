package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("analysis: completion provider not configured")
	// ErrEmptyCompletion is returned when the provider answers without choices.
	ErrEmptyCompletion = errors.New("analysis: empty completion")
)

// Completer is the text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type GroqOptions struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GroqClient calls the OpenAI-compatible chat completions endpoint of Groq.
type GroqClient struct {
	opts       GroqOptions
	httpClient *http.Client
}

func NewGroqClient(opts GroqOptions) *GroqClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.groq.com/openai/v1"
	}
	if opts.Model == "" {
		opts.Model = "llama-3.3-70b-versatile"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &GroqClient{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

func (g *GroqClient) Configured() bool {
	return g != nil && g.opts.APIKey != ""
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
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *GroqClient) Complete(ctx context.Context, system, user string) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: g.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.opts.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.opts.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request: API returned status %d", resp.StatusCode)
	}

	var r chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(r.Choices) == 0 || strings.TrimSpace(r.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return r.Choices[0].Message.Content, nil
}
