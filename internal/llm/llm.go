// Package llm dispatches rewrite requests to the configured model
// backend. Each provider speaks its own wire format; all of them
// reduce to rewrite(system, user) -> trimmed text.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider identifies a backend wire-protocol family
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderClaude     Provider = "claude"
	ProviderGemini     Provider = "gemini"
	ProviderCompatible Provider = "compatible"
)

// Providers lists every supported provider tag
var Providers = []Provider{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderCompatible}

// ErrUnsupportedProvider is returned for a provider tag outside the
// supported set.
var ErrUnsupportedProvider = errors.New("unsupported model provider")

// ModelConfig is a credentialed backend configuration
type ModelConfig struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
	APIKey   string   `json:"apiKey"`

	// BaseURL overrides the provider's default endpoint
	BaseURL string `json:"baseUrl,omitempty"`

	// CustomModel overrides Model, for third-party platforms that
	// front a different model name.
	CustomModel string `json:"customModel,omitempty"`
}

// ModelName returns the model identifier to send on the wire
func (c ModelConfig) ModelName() string {
	if c.CustomModel != "" {
		return c.CustomModel
	}
	return c.Model
}

// Client rewrites one prompt pair into text
type Client interface {
	// Name returns the provider tag
	Name() Provider

	// Rewrite sends the prompt pair and returns the model's response
	// text, trimmed of surrounding whitespace.
	Rewrite(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Turn is one prior message of a refinement conversation
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generation parameters shared by every provider
const (
	temperature    = 0.7
	maxTokens      = 500
	defaultTimeout = 60 * time.Second
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// joinURL joins a base URL and a path regardless of trailing or
// leading slashes.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// apiError converts a non-2xx response into a descriptive error: the
// server's reported message when the body parses as JSON, else the raw
// body, else a generic status message.
func apiError(provider Provider, status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("%s error (status %d): %s", provider, status, payload.Error.Message)
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return fmt.Errorf("%s error (status %d): %s", provider, status, trimmed)
	}
	return fmt.Errorf("%s call failed with status %d", provider, status)
}
