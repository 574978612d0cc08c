package llm

import (
	"context"
	"fmt"
	"time"
)

// New builds the client for a model configuration. Configuration
// errors (missing credential, missing endpoint) surface here, before
// any network attempt.
func New(cfg ModelConfig, timeout time.Duration) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai requires an API key")
		}
		return NewOpenAIClient(cfg, timeout), nil

	case ProviderClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude requires an API key")
		}
		return NewClaudeClient(cfg, timeout), nil

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini requires an API key")
		}
		return NewGeminiClient(cfg, timeout), nil

	case ProviderCompatible:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("compatible provider requires a base URL")
		}
		return NewCompatibleClient(cfg, timeout), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// Chat runs one multi-turn refinement exchange. Only the
// chat-completion wire format carries conversations, so claude and
// gemini configurations are rejected here.
func Chat(ctx context.Context, cfg ModelConfig, timeout time.Duration, systemPrompt string, history []Turn, userMessage string) (string, error) {
	client, err := New(cfg, timeout)
	if err != nil {
		return "", err
	}

	chatter, ok := client.(interface {
		Chat(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error)
	})
	if !ok {
		return "", fmt.Errorf("%w: multi-turn chat requires an OpenAI-compatible provider, got %s",
			ErrUnsupportedProvider, cfg.Provider)
	}

	return chatter.Chat(ctx, systemPrompt, history, userMessage)
}
