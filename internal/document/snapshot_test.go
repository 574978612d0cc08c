package document

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"copytune/internal/category"
)

func sampleSnapshot() *Snapshot {
	size := func(v float64) *float64 { return &v }
	return &Snapshot{
		Name: "checkout-flow",
		Root: &Node{
			ID:   "0:1",
			Name: "Page 1",
			Type: TypeFrame,
			Children: []*Node{
				{
					ID:   "1:1",
					Name: "Checkout",
					Type: TypeFrame,
					Children: []*Node{
						{
							ID:   "1:2",
							Name: "submit-btn",
							Type: TypeComponent,
							Children: []*Node{
								{ID: "1:3", Name: "label", Type: TypeText, Characters: "提交订单", FontSize: size(14)},
							},
						},
						{
							ID:   "1:4",
							Name: "hero",
							Type: "GROUP",
							Children: []*Node{
								{ID: "1:5", Name: "text 7", Type: TypeText, Characters: "欢迎回来", FontSize: size(28)},
							},
						},
					},
				},
			},
		},
	}
}

func TestScanWholeDocument(t *testing.T) {
	items, err := sampleSnapshot().Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Scan() returned %d items, want 2", len(items))
	}

	btn := items[0]
	if btn.Category != category.Button {
		t.Errorf("item 1 category = %v, want %v", btn.Category, category.Button)
	}
	if btn.Context != "Page 1 > Checkout > submit-btn" {
		t.Errorf("item 1 context = %q", btn.Context)
	}

	// Second item sits under a plain group: classification falls
	// through to font size, and the group is skipped in the path.
	hero := items[1]
	if hero.Category != category.Title {
		t.Errorf("item 2 category = %v, want %v", hero.Category, category.Title)
	}
	if hero.Context != "Page 1 > Checkout" {
		t.Errorf("item 2 context = %q", hero.Context)
	}
}

func TestScanSelection(t *testing.T) {
	snap := sampleSnapshot()

	items, err := snap.Scan("1:4")
	if err != nil {
		t.Fatalf("Scan(1:4) error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1:5" {
		t.Fatalf("Scan(1:4) = %+v, want the single hero text", items)
	}

	if _, err := snap.Scan("9:9"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Scan(9:9) error = %v, want ErrNodeNotFound", err)
	}
}

func TestContextFallsBackToPlaceholder(t *testing.T) {
	snap := &Snapshot{
		Name: "loose",
		Root: &Node{
			ID:   "0:1",
			Name: "g",
			Type: "GROUP",
			Children: []*Node{
				{ID: "0:2", Name: "text", Type: TypeText, Characters: "孤零零"},
			},
		},
	}

	items, err := snap.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if items[0].Context != "未知位置" {
		t.Errorf("context = %q, want 未知位置", items[0].Context)
	}
}

func TestSetText(t *testing.T) {
	snap := sampleSnapshot()

	if err := snap.SetText("1:3", "立即下单"); err != nil {
		t.Fatalf("SetText() error: %v", err)
	}
	items, _ := snap.Scan()
	if items[0].Original != "立即下单" {
		t.Errorf("text after SetText = %q", items[0].Original)
	}

	if err := snap.SetText("missing", "x"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SetText(missing) error = %v, want ErrNodeNotFound", err)
	}
	// A non-text node is not a valid target either
	if err := snap.SetText("1:2", "x"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SetText(frame) error = %v, want ErrNodeNotFound", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")

	data, err := json.Marshal(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := snap.SetText("1:3", "去结算"); err != nil {
		t.Fatal(err)
	}
	if err := snap.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	items, _ := again.Scan()
	if items[0].Original != "去结算" {
		t.Errorf("persisted text = %q, want 去结算", items[0].Original)
	}
}
