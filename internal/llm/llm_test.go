package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIRewrite(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq openAIRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  立即购买  "}}]}`))
	}))
	defer srv.Close()

	// Trailing slash on the base URL must not produce a double slash
	client := NewOpenAIClient(ModelConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/",
	}, 0)

	got, err := client.Rewrite(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "立即购买", got)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, 0.7, gotReq.Temperature)
	assert.Equal(t, 500, gotReq.MaxTokens)
}

func TestClaudeRewrite(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotReq claudeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"content":[{"text":"立即购买"}]}`))
	}))
	defer srv.Close()

	client := NewClaudeClient(ModelConfig{
		Provider: ProviderClaude,
		Model:    "claude-3-5-sonnet-20241022",
		APIKey:   "ak-test",
		BaseURL:  srv.URL,
	}, 0)

	got, err := client.Rewrite(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "立即购买", got)

	assert.Equal(t, "/messages", gotPath)
	assert.Equal(t, "ak-test", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "system", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, 500, gotReq.MaxTokens)
}

func TestGeminiRewrite(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"立即购买\n"}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(ModelConfig{
		Provider: ProviderGemini,
		Model:    "gemini-1.5-flash",
		APIKey:   "g-test",
		BaseURL:  srv.URL,
	}, 0)

	got, err := client.Rewrite(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "立即购买", got)

	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "g-test", gotKey)
	require.Len(t, gotReq.SystemInstruction.Parts, 1)
	assert.Equal(t, "system", gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Parts[0].Text)
	assert.Equal(t, 500, gotReq.GenerationConfig.MaxOutputTokens)
}

func TestCompatibleUsesChatCompletionWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	client, err := New(ModelConfig{
		Provider: ProviderCompatible,
		Model:    "my-model",
		APIKey:   "key",
		BaseURL:  srv.URL + "/v1",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, ProviderCompatible, client.Name())

	got, err := client.Rewrite(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestCustomModelOverride(t *testing.T) {
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(ModelConfig{
		Provider:    ProviderOpenAI,
		Model:       "custom",
		CustomModel: "qwen-max",
		APIKey:      "key",
		BaseURL:     srv.URL,
	}, 0)

	_, err := client.Rewrite(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "qwen-max", gotReq.Model)
}

func TestAPIErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "structured error message",
			status: 401,
			body:   `{"error":{"message":"Incorrect API key provided"}}`,
			want:   "openai error (status 401): Incorrect API key provided",
		},
		{
			name:   "unparsable body falls back to raw text",
			status: 502,
			body:   "Bad Gateway",
			want:   "openai error (status 502): Bad Gateway",
		},
		{
			name:   "empty body falls back to status",
			status: 500,
			body:   "",
			want:   "openai call failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apiError(ProviderOpenAI, tt.status, []byte(tt.body))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestRewriteSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(429)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(ModelConfig{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL}, 0)
	_, err := client.Rewrite(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestRewriteMissingFieldIsFatal(t *testing.T) {
	// A 200 with an unexpected shape must be an error, not "".
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(ModelConfig{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL}, 0)
	_, err := client.Rewrite(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestFactoryValidation(t *testing.T) {
	_, err := New(ModelConfig{Provider: "grok"}, 0)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = New(ModelConfig{Provider: ProviderOpenAI}, 0)
	assert.ErrorContains(t, err, "API key")

	_, err = New(ModelConfig{Provider: ProviderCompatible, APIKey: "k"}, 0)
	assert.ErrorContains(t, err, "base URL")
}

func TestChat(t *testing.T) {
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"content":"改成\"立即抢购\"怎么样？"}}]}`))
	}))
	defer srv.Close()

	cfg := ModelConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "k", BaseURL: srv.URL}
	history := []Turn{
		{Role: "user", Content: "帮我优化\"点击购买\""},
		{Role: "assistant", Content: "立即购买"},
	}

	got, err := Chat(context.Background(), cfg, 0, "chat-system", history, "再激进一点")
	require.NoError(t, err)
	assert.Contains(t, got, "立即抢购")

	require.Len(t, gotReq.Messages, 4)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "chat-system", gotReq.Messages[0].Content)
	assert.Equal(t, "assistant", gotReq.Messages[2].Role)
	assert.Equal(t, "再激进一点", gotReq.Messages[3].Content)
}

func TestChatRejectsNonChatWire(t *testing.T) {
	cfg := ModelConfig{Provider: ProviderClaude, Model: "claude-3-5-sonnet-20241022", APIKey: "k"}
	_, err := Chat(context.Background(), cfg, 0, "s", nil, "u")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://api.example.com/v1", "/chat/completions", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/v1/", "chat/completions", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/v1/", "/chat/completions", "https://api.example.com/v1/chat/completions"},
	}
	for _, tt := range tests {
		if got := joinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("joinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
