package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const claudeDefaultBaseURL = "https://api.anthropic.com/v1"

const anthropicVersion = "2023-06-01"

// ClaudeClient speaks the message wire format
type ClaudeClient struct {
	cfg        ModelConfig
	baseURL    string
	httpClient *http.Client
}

func NewClaudeClient(cfg ModelConfig, timeout time.Duration) *ClaudeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = claudeDefaultBaseURL
	}
	return &ClaudeClient{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

func (c *ClaudeClient) Name() Provider {
	return ProviderClaude
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *ClaudeClient) Rewrite(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	apiReq := claudeRequest{
		Model:     c.cfg.ModelName(),
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		joinURL(c.baseURL, "/messages"),
		bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", apiError(c.Name(), resp.StatusCode, respBody)
	}

	var apiResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("claude: decode response: %w", err)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("claude: response has no content blocks")
	}

	return strings.TrimSpace(apiResp.Content[0].Text), nil
}
