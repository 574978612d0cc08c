package tui

import (
	"strings"
)

func (a *App) renderDetail() string {
	item := a.state.items[a.state.cursor]

	var b strings.Builder
	b.WriteString(styleTitle.Render(item.Name))
	b.WriteString("  ")
	b.WriteString(categoryBadge(item.Category))
	b.WriteString("\n")
	b.WriteString(styleSubtitle.Render("位置：" + item.Context))
	b.WriteString("\n\n")

	width := min(70, a.width-4)

	b.WriteString(styleSubtitle.Render("原文"))
	b.WriteString("\n")
	b.WriteString(styleBox.Width(width).Render(item.Original))
	b.WriteString("\n\n")

	if item.Optimized != "" {
		label := "优化建议"
		if item.Applied {
			label = "优化建议（已应用）"
		}
		b.WriteString(styleSubtitle.Render(label))
		b.WriteString("\n")
		b.WriteString(styleBox.Width(width).BorderForeground(colorPrimary).Render(item.Optimized))
		b.WriteString("\n\n")
	}

	if tips := item.Category.Tips(); len(tips) > 0 {
		b.WriteString(styleSubtitle.Render("写作建议"))
		b.WriteString("\n")
		for _, tip := range tips {
			b.WriteString(styleSubtitle.Render("  · " + tip))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.statusLine())
	return b.String()
}
