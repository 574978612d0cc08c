package category

import "testing"

func fs(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		context  []string
		fontSize *float64
		want     Category
	}{
		{
			name:    "button by context",
			text:    "Cancel",
			context: []string{"submit-btn", "checkout"},
			want:    Button,
		},
		{
			name:    "context beats content",
			text:    "确定",
			context: []string{"title-frame"},
			want:    Title,
		},
		{
			name:    "chinese button verb by content",
			text:    "下一步",
			context: []string{"group 12"},
			want:    Button,
		},
		{
			name:    "english button verb is case insensitive",
			text:    "SUBMIT",
			context: []string{"layer 3"},
			want:    Button,
		},
		{
			name:    "placeholder prefix",
			text:    "请输入手机号",
			context: []string{"group 1"},
			want:    Placeholder,
		},
		{
			name:    "search prefix",
			text:    "搜索商品",
			context: []string{"group 1"},
			want:    Placeholder,
		},
		{
			name:    "feedback keyword",
			text:    "保存成功",
			context: []string{"group 1"},
			want:    Feedback,
		},
		{
			name:    "link by nav context",
			text:    "首页",
			context: []string{"nav-bar", "app"},
			want:    Link,
		},
		{
			name:    "label by form context",
			text:    "用户名",
			context: []string{"form", "login"},
			want:    Label,
		},
		{
			name:     "large font falls back to title",
			text:     "随便写的文字",
			context:  []string{"group 1"},
			fontSize: fs(30),
			want:     Title,
		},
		{
			name:     "small font falls back to description",
			text:     "随便写的文字",
			context:  []string{"group 1"},
			fontSize: fs(10),
			want:     Description,
		},
		{
			name:     "mid font stays general",
			text:     "随便写的文字",
			context:  []string{"group 1"},
			fontSize: fs(16),
			want:     General,
		},
		{
			name:    "no signals at all",
			text:    "随便写的文字",
			context: []string{"group 1"},
			want:    General,
		},
		{
			name:     "font size ignored when content matches",
			text:     "请输入密码",
			context:  []string{"group 1"},
			fontSize: fs(30),
			want:     Placeholder,
		},
		{
			name:    "empty context and text",
			text:    "",
			context: nil,
			want:    General,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, tt.context, tt.fontSize)
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	// The same input must always resolve to the same category, even
	// when multiple category patterns could match the context.
	context := []string{"error-button", "form"}
	first := Classify("保存", context, nil)
	for i := 0; i < 100; i++ {
		if got := Classify("保存", context, nil); got != first {
			t.Fatalf("Classify() not deterministic: %v then %v", first, got)
		}
	}
	// Button precedes Feedback and Label in evaluation order
	if first != Button {
		t.Errorf("Classify() = %v, want %v", first, Button)
	}
}

func TestClassifyTotal(t *testing.T) {
	inputs := []string{"", "hello", "确定", "请输入", "错误", "x"}
	for _, text := range inputs {
		got := Classify(text, nil, nil)
		if !got.Valid() {
			t.Errorf("Classify(%q) = %q, not a known category", text, got)
		}
	}
}

func TestCategoryMetadata(t *testing.T) {
	for _, c := range All {
		if c.Description() == "" {
			t.Errorf("category %q has no description", c)
		}
		if c.Color() == "" {
			t.Errorf("category %q has no color", c)
		}
		if len(c.Tips()) == 0 {
			t.Errorf("category %q has no tips", c)
		}
	}
}
