package tui

import (
	"fmt"
	"strings"
)

func (a *App) renderHistory() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("优化历史"))
	b.WriteString("\n\n")

	records := a.store.History()
	if len(records) == 0 {
		b.WriteString(styleSubtitle.Render("还没有优化记录"))
		b.WriteString("\n\n")
		b.WriteString(styleStatusBar.Render("[esc] 返回"))
		return b.String()
	}

	visible := a.height - 6
	if visible < 3 {
		visible = 3
	}

	for i, rec := range records {
		if i >= visible {
			b.WriteString(styleSubtitle.Render(fmt.Sprintf("  … 还有 %d 条", len(records)-visible)))
			b.WriteString("\n")
			break
		}

		applied := ""
		if rec.Applied {
			applied = styleApplied.Render(" ✓")
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s → %s%s\n",
			styleSubtitle.Render(rec.Timestamp.Format("01-02 15:04")),
			categoryBadge(rec.Category),
			truncate(strings.ReplaceAll(rec.Original, "\n", " "), 18),
			truncate(strings.ReplaceAll(rec.Optimized, "\n", " "), 18),
			applied))
	}

	b.WriteString("\n")
	b.WriteString(styleStatusBar.Render("[esc] 返回"))
	return b.String()
}
