// Package category assigns a semantic role to every text element in a
// design document. Classification is layered rule matching: structural
// context first, then literal content, then font size, then a default.
package category

// Category is the semantic role of a UI text element
type Category string

const (
	Button      Category = "button"
	Title       Category = "title"
	Description Category = "description"
	Placeholder Category = "placeholder"
	Feedback    Category = "feedback"
	Label       Category = "label"
	Link        Category = "link"
	General     Category = "general"
)

// All lists every category in evaluation order. General is last and is
// never matched by pattern, only assigned as the fallback.
var All = []Category{
	Button,
	Title,
	Description,
	Placeholder,
	Feedback,
	Label,
	Link,
	General,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, k := range All {
		if c == k {
			return true
		}
	}
	return false
}

// Description returns the human-readable Chinese name of the category
func (c Category) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return string(c)
}

// Color returns the hex color used to render the category in the UI
func (c Category) Color() string {
	if col, ok := colors[c]; ok {
		return col
	}
	return colors[General]
}

// Tips returns writing advice shown to the user for this category
func (c Category) Tips() []string {
	return tips[c]
}

var descriptions = map[Category]string{
	Button:      "按钮",
	Title:       "标题",
	Description: "描述",
	Placeholder: "占位符",
	Feedback:    "反馈提示",
	Label:       "标签",
	Link:        "链接",
	General:     "通用",
}

var colors = map[Category]string{
	Button:      "#1a73e8",
	Title:       "#9c27b0",
	Description: "#00897b",
	Placeholder: "#ff9800",
	Feedback:    "#f44336",
	Label:       "#607d8b",
	Link:        "#3f51b5",
	General:     "#9e9e9e",
}

var tips = map[Category][]string{
	Button: {
		"使用动词开头，如\"立即购买\"",
		"控制在 2-6 个字以内",
		"避免使用\"点击\"等冗余词汇",
		"使用积极的行动词汇",
	},
	Title: {
		"突出核心信息",
		"避免过长，控制在 15 字以内",
		"使用吸引眼球的关键词",
		"保持简洁有力",
	},
	Description: {
		"使用通俗易懂的语言",
		"站在用户角度描述",
		"避免专业术语",
		"提供有价值的信息",
	},
	Placeholder: {
		"使用\"请输入...\"格式",
		"给出输入示例",
		"说明输入格式要求",
		"保持简短",
	},
	Feedback: {
		"说明发生了什么",
		"告诉用户下一步怎么做",
		"使用友好的语气",
		"避免技术性错误码",
	},
	Label: {
		"使用名词形式",
		"简洁准确",
		"避免缩写",
		"保持一致性",
	},
	Link: {
		"使用动宾结构",
		"明确指向目标",
		"避免\"点击这里\"",
		"让用户知道会发生什么",
	},
	General: {
		"保持简洁清晰",
		"使用用户熟悉的词汇",
		"避免歧义",
		"注意语气一致性",
	},
}
