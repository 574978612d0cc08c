package llm

import "time"

// CompatibleClient targets any self-hosted or third-party endpoint
// that speaks the chat-completion wire format.
type CompatibleClient struct {
	*OpenAIClient
}

func NewCompatibleClient(cfg ModelConfig, timeout time.Duration) *CompatibleClient {
	c := NewOpenAIClient(cfg, timeout)
	c.tag = ProviderCompatible
	return &CompatibleClient{OpenAIClient: c}
}
