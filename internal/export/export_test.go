package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"copytune/internal/category"
	"copytune/internal/document"
)

func sampleItems() []*document.TextItem {
	return []*document.TextItem{
		{
			ID:        "1:1",
			Name:      "submit",
			Original:  "点击提交",
			Context:   "Checkout > form",
			Category:  category.Button,
			Optimized: "立即提交",
			Applied:   true,
		},
		{
			ID:       "1:2",
			Name:     "hint",
			Original: `包含"引号", 逗号和
换行的文本`,
			Context:  "Checkout",
			Category: category.Description,
		},
	}
}

func TestBuildCounts(t *testing.T) {
	data := Build("结算页", sampleItems())

	if data.TotalTexts != 2 {
		t.Errorf("TotalTexts = %d, want 2", data.TotalTexts)
	}
	if data.OptimizedTexts != 1 {
		t.Errorf("OptimizedTexts = %d, want 1", data.OptimizedTexts)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	out, err := Build("结算页", sampleItems()).JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var back Data
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("export JSON does not parse: %v", err)
	}
	if back.ProjectName != "结算页" || len(back.Texts) != 2 {
		t.Errorf("round-trip lost data: %+v", back)
	}
}

func TestCSVEscaping(t *testing.T) {
	out, err := Build("结算页", sampleItems()).CSV()
	if err != nil {
		t.Fatalf("CSV() error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export CSV does not parse back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}

	// The quoted/comma/newline text survives the round trip intact
	if records[2][4] != sampleItems()[1].Original {
		t.Errorf("original text mangled: %q", records[2][4])
	}
	if records[1][6] != "true" {
		t.Errorf("applied flag = %q, want true", records[1][6])
	}
}

func TestMarkdownGroupsByCategory(t *testing.T) {
	md := Build("结算页", sampleItems()).Markdown()

	if !strings.Contains(md, "# 文案优化报告：结算页") {
		t.Errorf("missing title:\n%s", md)
	}
	if !strings.Contains(md, "## 按钮（1）") {
		t.Errorf("missing button group:\n%s", md)
	}
	if !strings.Contains(md, "## 描述（1）") {
		t.Errorf("missing description group:\n%s", md)
	}
	// Empty categories are omitted entirely
	if strings.Contains(md, "## 链接") {
		t.Errorf("empty category rendered:\n%s", md)
	}
	if !strings.Contains(md, "- 优化后：立即提交") {
		t.Errorf("missing optimized line:\n%s", md)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Build("x", nil).Render("xml"); err == nil {
		t.Fatal("Render(xml) should fail")
	}
}
