package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient speaks the generate-content wire format. The API key
// travels as a query parameter, not a header.
type GeminiClient struct {
	cfg        ModelConfig
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(cfg ModelConfig, timeout time.Duration) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	return &GeminiClient{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

func (g *GeminiClient) Name() Provider {
	return ProviderGemini
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"systemInstruction"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) Rewrite(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	apiReq := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: userPrompt}}}},
	}
	apiReq.GenerationConfig.Temperature = temperature
	apiReq.GenerationConfig.MaxOutputTokens = maxTokens

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", err
	}

	endpoint := joinURL(g.baseURL, "/models/"+g.cfg.ModelName()+":generateContent") +
		"?key=" + url.QueryEscape(g.cfg.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", apiError(g.Name(), resp.StatusCode, respBody)
	}

	var apiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: response has no candidate parts")
	}

	return strings.TrimSpace(apiResp.Candidates[0].Content.Parts[0].Text), nil
}
