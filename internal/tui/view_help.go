package tui

import (
	"strings"
)

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("帮助"))
	b.WriteString("\n\n")

	lines := []string{
		"  ↑/k ↓/j   选择文本",
		"  enter     查看详情和写作建议",
		"  o         优化当前文本",
		"  b         批量优化全部文本",
		"  a         将优化结果写回快照",
		"  r         还原已应用的文本",
		"  h         查看优化历史",
		"  esc       返回 / 退出",
	}
	b.WriteString(styleBox.Width(min(50, a.width-4)).Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")
	b.WriteString(styleStatusBar.Render("[esc] 返回"))
	return b.String()
}
