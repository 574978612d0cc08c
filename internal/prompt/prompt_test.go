package prompt

import (
	"strings"
	"testing"

	"copytune/internal/category"
)

func TestBuildBrandTerms(t *testing.T) {
	sys, _ := Build(Input{
		Text:     "安装脚本",
		Category: category.General,
		Context:  "设置页",
		BrandTerms: []BrandTerm{
			{Wrong: "脚本", Correct: "插件", Enabled: true},
			{Wrong: "帐号", Correct: "账号", Enabled: false},
		},
	})

	if !strings.Contains(sys, `- "脚本" 应写为 "插件"`) {
		t.Errorf("system prompt missing enabled brand term line:\n%s", sys)
	}
	if strings.Contains(sys, "帐号") {
		t.Errorf("system prompt contains disabled brand term:\n%s", sys)
	}
}

func TestBuildOmitsEmptySections(t *testing.T) {
	sys, _ := Build(Input{
		Text:     "确定",
		Category: category.Button,
		Context:  "弹窗",
		BrandTerms: []BrandTerm{
			{Wrong: "A", Correct: "B", Enabled: false},
		},
	})

	if strings.Contains(sys, "品牌词库规范") {
		t.Errorf("empty brand term section should be omitted:\n%s", sys)
	}
	if strings.Contains(sys, "额外优化规则") {
		t.Errorf("empty rules section should be omitted:\n%s", sys)
	}
}

func TestBuildRuleCategoryFilter(t *testing.T) {
	rules := []Rule{
		{Content: "所有文案不超过20字", Enabled: true},
		{Content: "按钮必须以动词开头", Category: category.Button, Enabled: true},
		{Content: "标题要有数字", Category: category.Title, Enabled: true},
		{Content: "禁用的规则", Enabled: false},
	}

	sys, _ := Build(Input{Text: "确定", Category: category.Button, Context: "弹窗", Rules: rules})

	if !strings.Contains(sys, "所有文案不超过20字") {
		t.Errorf("unrestricted rule missing:\n%s", sys)
	}
	if !strings.Contains(sys, "按钮必须以动词开头") {
		t.Errorf("matching category rule missing:\n%s", sys)
	}
	if strings.Contains(sys, "标题要有数字") {
		t.Errorf("other-category rule included:\n%s", sys)
	}
	if strings.Contains(sys, "禁用的规则") {
		t.Errorf("disabled rule included:\n%s", sys)
	}
}

func TestBuildSystemPromptOverride(t *testing.T) {
	override := "你是某电商 App 的文案负责人，语气活泼。"
	sys, _ := Build(Input{
		Text:         "确定",
		Category:     category.Button,
		Context:      "购物车",
		SystemPrompt: override,
	})

	if !strings.HasPrefix(sys, override) {
		t.Errorf("override not used as preamble:\n%s", sys)
	}
	// The task context block is never omitted, override or not
	if !strings.Contains(sys, "上下文场景：购物车") {
		t.Errorf("task context block missing with override:\n%s", sys)
	}
	if !strings.Contains(sys, "重要要求：") {
		t.Errorf("output instructions missing with override:\n%s", sys)
	}
	if strings.Contains(sys, "你是一个专业的 UI 文案优化专家") {
		t.Errorf("default persona should be replaced by override:\n%s", sys)
	}
}

func TestBuildReference(t *testing.T) {
	ref := &Reference{
		Category:  category.Button,
		Original:  "点击购买",
		Optimized: "立即抢购",
	}
	sys, _ := Build(Input{Text: "点击提交", Category: category.Button, Context: "下单页", Reference: ref})

	if !strings.Contains(sys, "参考示例") {
		t.Errorf("reference block missing:\n%s", sys)
	}
	if !strings.Contains(sys, "原文：点击购买") || !strings.Contains(sys, "优化后：立即抢购") {
		t.Errorf("reference pair not rendered:\n%s", sys)
	}
	if !strings.Contains(sys, "5. 模仿参考示例的句式、语气和长度") {
		t.Errorf("imitation directive missing:\n%s", sys)
	}

	// Without a reference there is no fifth directive
	sys, _ = Build(Input{Text: "点击提交", Category: category.Button, Context: "下单页"})
	if strings.Contains(sys, "5. 模仿") {
		t.Errorf("imitation directive present without reference:\n%s", sys)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	_, user := Build(Input{Text: "点击这里查看详情", Category: category.Link, Context: "列表页"})
	if user != "请优化以下文案：\n\n点击这里查看详情" {
		t.Errorf("user prompt = %q", user)
	}
}

func TestBuildChatSystem(t *testing.T) {
	sys := BuildChatSystem(category.Button, "购物车", []BrandTerm{
		{Wrong: "脚本", Correct: "插件", Enabled: true},
	}, []Rule{
		{Content: "不超过6个字", Category: category.Button, Enabled: true},
	})

	for _, want := range []string{"购物车", "脚本", "插件", "不超过6个字"} {
		if !strings.Contains(sys, want) {
			t.Errorf("chat system prompt missing %q:\n%s", want, sys)
		}
	}
}
