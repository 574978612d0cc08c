// Package prompt assembles the system/user prompt pair sent to the
// model. All behavioral instructions live in the system prompt; the
// user prompt carries only the text to transform.
package prompt

import (
	"fmt"
	"strings"

	"copytune/internal/category"
)

// BrandTerm is a forced lexical substitution applied during rewriting
type BrandTerm struct {
	ID      string `json:"id"`
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
	Enabled bool   `json:"enabled"`
}

// Rule is a free-text optimization instruction, optionally restricted
// to one category. An empty Category applies to all categories.
type Rule struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Category category.Category `json:"category,omitempty"`
	Enabled  bool              `json:"enabled"`
}

// Reference is a user-designated exemplary rewrite used to steer the
// style of later rewrites in the same category.
type Reference struct {
	Category  category.Category `json:"category"`
	Original  string            `json:"original"`
	Optimized string            `json:"optimized"`
}

// Input collects everything the builder merges into one prompt pair
type Input struct {
	Text       string
	Category   category.Category
	Context    string
	BrandTerms []BrandTerm
	Rules      []Rule

	// SystemPrompt replaces the default persona preamble when set.
	// The task context block is appended either way.
	SystemPrompt string

	// Reference, when set, is the single style example for the
	// category. Callers keep at most one per category.
	Reference *Reference
}

const defaultPersona = "你是一个专业的 UI 文案优化专家，擅长优化各类界面文案，使其更加专业、清晰、用户友好。"

const userWrapper = "请优化以下文案：\n\n"

// categoryGuidance is the per-category instruction inside the task
// context block.
var categoryGuidance = map[category.Category]string{
	category.Button:      "这是一个按钮文案。要求：简短有力，最好以动词开头，不超过8个字。",
	category.Title:       "这是一个标题文案。要求：清晰准确，突出核心信息，吸引注意力。",
	category.Description: "这是一个描述/说明文案。要求：通俗易懂，站在用户视角，简洁明了。",
	category.Placeholder: "这是一个输入框占位符。要求：简洁引导，如\"请输入...\"格式，帮助用户理解输入内容。",
	category.Feedback:    "这是一个反馈/提示文案。要求：友好、有帮助、提供可操作的建议。",
	category.Label:       "这是一个标签/表单项名称。要求：简洁准确，使用名词形式。",
	category.Link:        "这是一个链接/导航文案。要求：明确指向，使用动宾结构，让用户知道点击后会发生什么。",
	category.General:     "这是一个通用界面文案。要求：简洁清晰，符合界面设计规范。",
}

// Build merges the input into a system/user prompt pair. The output
// instructions forbid explanatory prefixes/suffixes, so downstream code
// treats the provider's trimmed response as the rewritten text.
func Build(in Input) (systemPrompt, userPrompt string) {
	var sys strings.Builder

	preamble := strings.TrimSpace(in.SystemPrompt)
	if preamble == "" {
		preamble = defaultPersona
	}
	sys.WriteString(preamble)
	sys.WriteString("\n\n")
	sys.WriteString(categoryGuidance[in.Category])
	sys.WriteString("\n\n上下文场景：")
	sys.WriteString(in.Context)
	sys.WriteString(brandTermsSection(in.BrandTerms))
	sys.WriteString(rulesSection(in.Rules, in.Category))
	sys.WriteString(referenceSection(in.Reference))

	sys.WriteString("\n\n重要要求：\n")
	sys.WriteString("1. 保持原意，只优化表达方式\n")
	sys.WriteString("2. 符合中文互联网产品的文案风格\n")
	sys.WriteString("3. 遵循品牌用语规范\n")
	sys.WriteString("4. 只返回优化后的文案，不要任何解释或额外内容")
	if in.Reference != nil {
		sys.WriteString("\n5. 模仿参考示例的句式、语气和长度")
	}

	return sys.String(), userWrapper + in.Text
}

// brandTermsSection renders one correction line per enabled term.
// No enabled terms means no section at all.
func brandTermsSection(terms []BrandTerm) string {
	var lines []string
	for _, t := range terms {
		if t.Enabled {
			lines = append(lines, fmt.Sprintf("- \"%s\" 应写为 \"%s\"", t.Wrong, t.Correct))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n品牌词库规范：\n" + strings.Join(lines, "\n")
}

// rulesSection keeps rules that are enabled and either unrestricted or
// restricted to the current category.
func rulesSection(rules []Rule, cat category.Category) string {
	var lines []string
	for _, r := range rules {
		if r.Enabled && (r.Category == "" || r.Category == cat) {
			lines = append(lines, "- "+r.Content)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n额外优化规则：\n" + strings.Join(lines, "\n")
}

func referenceSection(ref *Reference) string {
	if ref == nil {
		return ""
	}
	return fmt.Sprintf("\n\n参考示例（请模仿以下文案的风格）：\n原文：%s\n优化后：%s", ref.Original, ref.Optimized)
}

// BuildChatSystem is the compact conversation-scoped system prompt used
// by the multi-turn refinement flow.
func BuildChatSystem(cat category.Category, context string, terms []BrandTerm, rules []Rule) string {
	var sys strings.Builder
	sys.WriteString("你是一个专业的 UI 文案优化助手，正在和用户讨论一条界面文案的改进。")
	sys.WriteString(categoryGuidance[cat])
	sys.WriteString("\n当前文案位置：")
	sys.WriteString(context)
	sys.WriteString(brandTermsSection(terms))
	sys.WriteString(rulesSection(rules, cat))
	return sys.String()
}
