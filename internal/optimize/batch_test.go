package optimize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"copytune/internal/category"
	"copytune/internal/llm"
	"copytune/internal/prompt"
)

// fakeClient rewrites by upper-casing, failing on texts listed in fail
type fakeClient struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeClient) Name() llm.Provider {
	return llm.ProviderOpenAI
}

func (f *fakeClient) Rewrite(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text := strings.TrimPrefix(userPrompt, "请优化以下文案：\n\n")
	f.calls = append(f.calls, text)
	if f.fail[text] {
		return "", errors.New("simulated provider failure")
	}
	return "优化:" + text, nil
}

func TestBatchIsolation(t *testing.T) {
	client := &fakeClient{fail: map[string]bool{"b": true}}
	o := New(client, WithBatchDelay(0))

	items := []Request{
		{Text: "a", Category: category.General, Context: "x"},
		{Text: "b", Category: category.General, Context: "x"},
		{Text: "c", Category: category.General, Context: "x"},
	}

	results := o.Batch(context.Background(), items, nil)

	if len(results) != 3 {
		t.Fatalf("Batch() returned %d results, want 3", len(results))
	}
	if results[0].Optimized != "优化:a" || results[0].Failed() {
		t.Errorf("item 1 = %+v, want success", results[0])
	}
	if !results[1].Failed() {
		t.Errorf("item 2 should carry an error: %+v", results[1])
	}
	if results[1].Optimized != "b" {
		t.Errorf("failed item must keep original text, got %q", results[1].Optimized)
	}
	if results[2].Optimized != "优化:c" || results[2].Failed() {
		t.Errorf("item 3 = %+v, want success", results[2])
	}
}

func TestBatchSequentialOrder(t *testing.T) {
	client := &fakeClient{}
	o := New(client, WithBatchDelay(0))

	var items []Request
	for i := 0; i < 5; i++ {
		items = append(items, Request{Text: fmt.Sprintf("t%d", i), Category: category.General})
	}
	o.Batch(context.Background(), items, nil)

	for i, call := range client.calls {
		if call != fmt.Sprintf("t%d", i) {
			t.Fatalf("call %d was %q, items processed out of order", i, call)
		}
	}
}

func TestBatchProgress(t *testing.T) {
	client := &fakeClient{fail: map[string]bool{"b": true}}
	o := New(client, WithBatchDelay(0))

	var progress [][2]int
	o.Batch(context.Background(), []Request{
		{Text: "a"}, {Text: "b"}, {Text: "c"},
	}, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})

	// Progress fires after every item, failures included
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(progress) != len(want) {
		t.Fatalf("progress fired %d times, want %d", len(progress), len(want))
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}
}

func TestBatchCancellation(t *testing.T) {
	client := &fakeClient{}
	o := New(client, WithBatchDelay(0))

	ctx, cancel := context.WithCancel(context.Background())
	var results []BatchResult
	results = o.Batch(ctx, []Request{
		{Text: "a"}, {Text: "b"}, {Text: "c"},
	}, func(done, total int) {
		if done == 1 {
			cancel()
		}
	})

	// Completed work is kept, no further calls are issued
	if len(results) != 1 {
		t.Fatalf("Batch() after cancel returned %d results, want 1", len(results))
	}
	if len(client.calls) != 1 {
		t.Errorf("client saw %d calls after cancel, want 1", len(client.calls))
	}
}

func TestOptimizePassesConfigurationThrough(t *testing.T) {
	client := &fakeClient{}
	o := New(client)

	var seenSystem string
	capture := &captureClient{inner: client, system: &seenSystem}
	o.client = capture

	_, err := o.Optimize(context.Background(), Request{
		Text:     "点击购买",
		Category: category.Button,
		Context:  "下单页",
		BrandTerms: []prompt.BrandTerm{
			{Wrong: "脚本", Correct: "插件", Enabled: true},
		},
	})
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}

	if !strings.Contains(seenSystem, "下单页") || !strings.Contains(seenSystem, "插件") {
		t.Errorf("system prompt did not carry context/brand terms:\n%s", seenSystem)
	}
}

type captureClient struct {
	inner  llm.Client
	system *string
}

func (c *captureClient) Name() llm.Provider { return c.inner.Name() }

func (c *captureClient) Rewrite(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	*c.system = systemPrompt
	return c.inner.Rewrite(ctx, systemPrompt, userPrompt)
}

func TestConnectionProbe(t *testing.T) {
	ok, msg := TestConnection(context.Background(), &fakeClient{})
	if !ok {
		t.Fatalf("TestConnection() = false, %s", msg)
	}
	if !strings.Contains(msg, "优化:测试") {
		t.Errorf("probe message should echo the response: %s", msg)
	}

	ok, msg = TestConnection(context.Background(), &fakeClient{fail: map[string]bool{"测试": true}})
	if ok {
		t.Fatal("TestConnection() = true for failing client")
	}
	if !strings.Contains(msg, "simulated provider failure") {
		t.Errorf("probe failure message should carry the error: %s", msg)
	}
}
