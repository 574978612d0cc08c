package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"copytune/internal/category"
)

// truncate shortens text to maxLen runes, adding "…" if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleSelected = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleApplied = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)
)

// categoryBadge renders the category in its assigned color
func categoryBadge(c category.Category) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Color())).
		Render(c.Description())
}

func batchSummary(ok, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("批量优化完成：%d 条", ok)
	}
	return fmt.Sprintf("批量优化完成：%d 成功，%d 失败", ok, failed)
}
