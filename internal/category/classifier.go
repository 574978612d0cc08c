package category

import (
	"regexp"
	"strings"
)

// contextPatterns match against the joined, lowercased names of a node
// and its ancestors. Evaluated in the order of All; first hit wins.
var contextPatterns = map[Category][]*regexp.Regexp{
	Button: {
		regexp.MustCompile(`btn`),
		regexp.MustCompile(`button`),
		regexp.MustCompile(`cta`),
		regexp.MustCompile(`action`),
		regexp.MustCompile(`submit`),
		regexp.MustCompile(`cancel`),
		regexp.MustCompile(`confirm`),
	},
	Title: {
		regexp.MustCompile(`title`),
		regexp.MustCompile(`header`),
		regexp.MustCompile(`heading`),
		regexp.MustCompile(`headline`),
		regexp.MustCompile(`^h[1-6]$`),
	},
	Description: {
		regexp.MustCompile(`desc`),
		regexp.MustCompile(`description`),
		regexp.MustCompile(`subtitle`),
		regexp.MustCompile(`tip`),
		regexp.MustCompile(`hint`),
		regexp.MustCompile(`caption`),
		regexp.MustCompile(`detail`),
	},
	Placeholder: {
		regexp.MustCompile(`placeholder`),
		regexp.MustCompile(`input`),
		regexp.MustCompile(`search`),
		regexp.MustCompile(`field`),
		regexp.MustCompile(`textarea`),
	},
	Feedback: {
		regexp.MustCompile(`toast`),
		regexp.MustCompile(`error`),
		regexp.MustCompile(`success`),
		regexp.MustCompile(`warning`),
		regexp.MustCompile(`alert`),
		regexp.MustCompile(`message`),
		regexp.MustCompile(`notification`),
		regexp.MustCompile(`snackbar`),
	},
	Label: {
		regexp.MustCompile(`label`),
		regexp.MustCompile(`form`),
		regexp.MustCompile(`field-label`),
		regexp.MustCompile(`input-label`),
	},
	Link: {
		regexp.MustCompile(`link`),
		regexp.MustCompile(`nav`),
		regexp.MustCompile(`menu`),
		regexp.MustCompile(`navigation`),
		regexp.MustCompile(`anchor`),
		regexp.MustCompile(`breadcrumb`),
	},
}

// contentPatterns match against the literal text of the element
var contentPatterns = map[Category][]*regexp.Regexp{
	Button: {
		regexp.MustCompile(`^(确定|取消|提交|保存|删除|编辑|新增|添加|创建|返回|下一步|上一步|完成|开始|继续|了解更多|立即|马上)$`),
		regexp.MustCompile(`(?i)^(OK|Cancel|Submit|Save|Delete|Edit|Add|Create|Back|Next|Done|Start|Continue)$`),
	},
	Placeholder: {
		regexp.MustCompile(`^请输入`),
		regexp.MustCompile(`^请选择`),
		regexp.MustCompile(`^搜索`),
		regexp.MustCompile(`^输入.*关键`),
	},
	Feedback: {
		regexp.MustCompile(`成功|失败|错误|警告|提示|注意`),
		regexp.MustCompile(`已保存|已删除|已更新|已发送`),
	},
}

// Font-size thresholds used when neither context nor content matched
const (
	titleFontSize       = 24
	descriptionFontSize = 12
)

// Classify maps a text element to its category. Precedence: ancestor
// context, then literal content, then font size, then General. The
// function is pure and total; a nil fontSize means the size was
// unavailable or not numeric.
func Classify(text string, contextNames []string, fontSize *float64) Category {
	if c := classifyByContext(contextNames); c != General {
		return c
	}
	if c := classifyByContent(text); c != General {
		return c
	}
	if c := classifyByFontSize(fontSize); c != General {
		return c
	}
	return General
}

func classifyByContext(contextNames []string) Category {
	combined := strings.ToLower(strings.Join(contextNames, " "))
	for _, cat := range All {
		if cat == General {
			continue
		}
		for _, p := range contextPatterns[cat] {
			if p.MatchString(combined) {
				return cat
			}
		}
	}
	return General
}

func classifyByContent(text string) Category {
	for _, cat := range All {
		for _, p := range contentPatterns[cat] {
			if p.MatchString(text) {
				return cat
			}
		}
	}
	return General
}

func classifyByFontSize(fontSize *float64) Category {
	if fontSize == nil {
		return General
	}
	if *fontSize >= titleFontSize {
		return Title
	}
	if *fontSize <= descriptionFontSize {
		return Description
	}
	return General
}
