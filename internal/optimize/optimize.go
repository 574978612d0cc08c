// Package optimize drives the rewrite pipeline: build the prompt for
// one classified text element, dispatch it to the configured model,
// and hand back the trimmed rewrite.
package optimize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"copytune/internal/category"
	"copytune/internal/llm"
	"copytune/internal/prompt"
)

// Inter-item pause during batch runs, to stay under provider rate
// limits.
const defaultBatchDelay = 500 * time.Millisecond

// Request is one text element plus the configuration that shapes its
// rewrite.
type Request struct {
	Text       string
	Category   category.Category
	Context    string
	BrandTerms []prompt.BrandTerm
	Rules      []prompt.Rule

	// SystemPrompt is the active agent's override, if any
	SystemPrompt string

	// Reference is the style example for this category, if any
	Reference *prompt.Reference
}

// Optimizer rewrites text elements through one model client
type Optimizer struct {
	client llm.Client
	logger *zap.Logger
	delay  time.Duration
}

// Option configures an Optimizer
type Option func(*Optimizer)

// WithLogger attaches a logger for batch diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(o *Optimizer) { o.logger = logger }
}

// WithBatchDelay overrides the pause between batch items
func WithBatchDelay(d time.Duration) Option {
	return func(o *Optimizer) { o.delay = d }
}

// New creates an optimizer over an already-constructed client
func New(client llm.Client, opts ...Option) *Optimizer {
	o := &Optimizer{
		client: client,
		logger: zap.NewNop(),
		delay:  defaultBatchDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize rewrites a single element
func (o *Optimizer) Optimize(ctx context.Context, req Request) (string, error) {
	systemPrompt, userPrompt := prompt.Build(prompt.Input{
		Text:         req.Text,
		Category:     req.Category,
		Context:      req.Context,
		BrandTerms:   req.BrandTerms,
		Rules:        req.Rules,
		SystemPrompt: req.SystemPrompt,
		Reference:    req.Reference,
	})
	return o.client.Rewrite(ctx, systemPrompt, userPrompt)
}

// TestConnection probes a model configuration with a trivial rewrite
// and reports reachability plus a human-readable message.
func TestConnection(ctx context.Context, client llm.Client) (bool, string) {
	result, err := New(client).Optimize(ctx, Request{
		Text:     "测试",
		Category: category.General,
		Context:  "连接测试",
	})
	if err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("连接成功！响应: %q", result)
}
