// Package export renders scan results for use outside the tool
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"copytune/internal/category"
	"copytune/internal/document"
)

// Format selects an output rendering
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Data wraps the items with export metadata
type Data struct {
	ProjectName    string               `json:"projectName"`
	ExportTime     time.Time            `json:"exportTime"`
	TotalTexts     int                  `json:"totalTexts"`
	OptimizedTexts int                  `json:"optimizedTexts"`
	Texts          []*document.TextItem `json:"texts"`
}

// Build collects the items and counts into an export payload
func Build(projectName string, items []*document.TextItem) *Data {
	optimized := 0
	for _, item := range items {
		if item.Optimized != "" {
			optimized++
		}
	}
	return &Data{
		ProjectName:    projectName,
		ExportTime:     time.Now(),
		TotalTexts:     len(items),
		OptimizedTexts: optimized,
		Texts:          items,
	}
}

// Render produces the payload in the requested format
func (d *Data) Render(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return d.JSON()
	case FormatCSV:
		return d.CSV()
	case FormatMarkdown:
		return []byte(d.Markdown()), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// JSON renders the payload as indented JSON
func (d *Data) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// CSV renders one row per item. The csv writer handles quoting of
// embedded delimiters and quotes.
func (d *Data) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "name", "category", "context", "original", "optimized", "applied"}); err != nil {
		return nil, err
	}
	for _, item := range d.Texts {
		row := []string{
			item.ID,
			item.Name,
			string(item.Category),
			item.Context,
			item.Original,
			item.Optimized,
			fmt.Sprintf("%t", item.Applied),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// Markdown renders a human-readable report grouped by category
func (d *Data) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 文案优化报告：%s\n\n", d.ProjectName)
	fmt.Fprintf(&b, "- 导出时间：%s\n", d.ExportTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- 文案总数：%d\n", d.TotalTexts)
	fmt.Fprintf(&b, "- 已优化：%d\n", d.OptimizedTexts)

	for _, cat := range category.All {
		var group []*document.TextItem
		for _, item := range d.Texts {
			if item.Category == cat {
				group = append(group, item)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s（%d）\n", cat.Description(), len(group))
		for _, item := range group {
			fmt.Fprintf(&b, "\n### %s\n\n", item.Name)
			fmt.Fprintf(&b, "- 位置：%s\n", item.Context)
			fmt.Fprintf(&b, "- 原文：%s\n", item.Original)
			if item.Optimized != "" {
				fmt.Fprintf(&b, "- 优化后：%s\n", item.Optimized)
				fmt.Fprintf(&b, "- 已应用：%t\n", item.Applied)
			}
		}
	}

	return b.String()
}
