package config

import "copytune/internal/llm"

// ModelOption is a preset shown when registering a saved model
type ModelOption struct {
	Provider    llm.Provider
	Model       string
	Name        string
	Description string
}

var ModelOptions = []ModelOption{
	{Provider: llm.ProviderOpenAI, Model: "gpt-4o", Name: "GPT-4o", Description: "最新最强，推荐使用"},
	{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "性价比高，速度快"},
	{Provider: llm.ProviderOpenAI, Model: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "强大稳定"},
	{Provider: llm.ProviderClaude, Model: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Description: "最新版本，能力强"},
	{Provider: llm.ProviderClaude, Model: "claude-3-opus-20240229", Name: "Claude 3 Opus", Description: "最强推理能力"},
	{Provider: llm.ProviderClaude, Model: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "快速响应"},
	{Provider: llm.ProviderGemini, Model: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Description: "长上下文支持"},
	{Provider: llm.ProviderGemini, Model: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "快速高效"},
	{Provider: llm.ProviderCompatible, Model: "custom", Name: "自定义模型", Description: "支持 OpenAI 兼容 API"},
}

// OptionsFor lists the presets for one provider
func OptionsFor(p llm.Provider) []ModelOption {
	var out []ModelOption
	for _, o := range ModelOptions {
		if o.Provider == p {
			out = append(out, o)
		}
	}
	return out
}
