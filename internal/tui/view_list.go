package tui

import (
	"fmt"
	"strings"
)

func (a *App) renderList() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("文案审阅 — " + a.snap.Name))
	b.WriteString("\n")
	b.WriteString(styleSubtitle.Render(fmt.Sprintf("%d 条文本", len(a.state.items))))
	b.WriteString("\n\n")

	if len(a.state.items) == 0 {
		b.WriteString(styleSubtitle.Render("快照中没有文本元素"))
		b.WriteString("\n\n")
		b.WriteString(a.statusLine())
		return b.String()
	}

	// Window the list around the cursor so long documents stay visible
	visible := a.height - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if a.state.cursor >= visible {
		start = a.state.cursor - visible + 1
	}
	end := min(start+visible, len(a.state.items))

	for i := start; i < end; i++ {
		b.WriteString(a.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.statusLine())
	return b.String()
}

func (a *App) renderRow(i int) string {
	item := a.state.items[i]

	marker := "  "
	text := truncate(strings.ReplaceAll(item.Original, "\n", " "), 30)
	if i == a.state.cursor {
		marker = "> "
		text = styleSelected.Render(text)
	}

	line := marker + categoryBadge(item.Category) + "  " + text
	switch {
	case a.state.errs[i] != "":
		line += styleError.Render("  ✗ 失败")
	case item.Applied:
		line += styleApplied.Render("  ✓ 已应用")
	case item.Optimized != "":
		line += styleSubtitle.Render("  → " + truncate(strings.ReplaceAll(item.Optimized, "\n", " "), 24))
	}
	return line
}

func (a *App) statusLine() string {
	if a.state.busy && a.state.batchTotal > 0 {
		return styleStatusBar.Render(
			fmt.Sprintf("优化中 %d/%d ...", a.state.batchDone, a.state.batchTotal))
	}
	if a.state.busy {
		return styleStatusBar.Render("优化中...")
	}

	hints := "[o] 优化  [b] 批量  [a] 应用  [r] 还原  [enter] 详情  [h] 历史  [?] 帮助  [esc] 退出"
	if a.state.status != "" {
		return a.state.status + "\n" + styleStatusBar.Render(hints)
	}
	return styleStatusBar.Render(hints)
}
