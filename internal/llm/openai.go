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

const openAIDefaultBaseURL = "https://api.openai.com/v1"

// OpenAIClient speaks the chat-completion wire format. It also backs
// the compatible provider, which reuses the same shape against a
// custom endpoint.
type OpenAIClient struct {
	cfg        ModelConfig
	tag        Provider
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(cfg ModelConfig, timeout time.Duration) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	return &OpenAIClient{
		cfg:        cfg,
		tag:        ProviderOpenAI,
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

func (o *OpenAIClient) Name() Provider {
	return o.tag
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIClient) Rewrite(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return o.complete(ctx, []openAIMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
}

// Chat replays a refinement conversation: the conversation-scoped
// system prompt, the prior turns, then the new user message.
func (o *OpenAIClient) Chat(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	messages := []openAIMessage{{Role: "system", Content: systemPrompt}}
	for _, t := range history {
		messages = append(messages, openAIMessage{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: userMessage})
	return o.complete(ctx, messages)
}

func (o *OpenAIClient) complete(ctx context.Context, messages []openAIMessage) (string, error) {
	apiReq := openAIRequest{
		Model:       o.cfg.ModelName(),
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		joinURL(o.baseURL, "/chat/completions"),
		bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", o.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", apiError(o.Name(), resp.StatusCode, respBody)
	}

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", o.Name(), err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("%s: response has no choices", o.Name())
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
