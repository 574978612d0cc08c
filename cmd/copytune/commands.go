package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"copytune/internal/document"
	"copytune/internal/export"
	"copytune/internal/optimize"
	"copytune/internal/prompt"
	"copytune/internal/store"
)

func newScanCmd() *cobra.Command {
	var ids []string

	cmd := &cobra.Command{
		Use:   "scan <snapshot.json>",
		Short: "List and classify the text elements of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := document.Load(args[0])
			if err != nil {
				return err
			}
			items, err := snap.Scan(ids...)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tCONTEXT\tTEXT")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					item.ID, item.Category, item.Context, firstLine(item.Original))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&ids, "ids", nil, "restrict the scan to these node ids")
	return cmd
}

func newOptimizeCmd() *cobra.Command {
	var nodeID string
	var apply bool

	cmd := &cobra.Command{
		Use:   "optimize <snapshot.json>",
		Short: "Rewrite one text element through the active model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			opt, err := a.optimizer()
			if err != nil {
				return err
			}

			snap, err := document.Load(args[0])
			if err != nil {
				return err
			}
			item, err := findItem(snap, nodeID)
			if err != nil {
				return err
			}

			result, err := opt.Optimize(ctx, a.requestFor(item))
			if err != nil {
				return err
			}
			item.Optimized = result

			if apply {
				if err := applyItem(snap, item); err != nil {
					return err
				}
			}

			rec := store.NewHistoryRecord(item.ID, item.Name, item.Original, result, item.Category, item.Applied)
			if err := a.store.AddHistory(ctx, rec); err != nil {
				a.logger.Warn("history not recorded", zap.Error(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "分类：%s\n原文：%s\n优化后：%s\n",
				item.Category.Description(), item.Original, result)
			if item.Applied {
				fmt.Fprintln(cmd.OutOrStdout(), "已写回快照")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "id", "", "node id of the text element")
	cmd.Flags().BoolVar(&apply, "apply", false, "write the rewrite back into the snapshot")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var ids []string
	var apply bool
	var outPath, format string

	cmd := &cobra.Command{
		Use:   "batch <snapshot.json>",
		Short: "Rewrite every scanned text element, one call at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			opt, err := a.optimizer()
			if err != nil {
				return err
			}

			snap, err := document.Load(args[0])
			if err != nil {
				return err
			}
			items, err := snap.Scan(ids...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("no text elements found")
			}

			requests := make([]optimize.Request, len(items))
			for i, item := range items {
				requests[i] = a.requestFor(item)
			}

			results := opt.Batch(ctx, requests, func(done, total int) {
				fmt.Fprintf(os.Stderr, "\r优化中 %d/%d", done, total)
			})
			fmt.Fprintln(os.Stderr)

			failed := 0
			for i, res := range results {
				item := items[i]
				if res.Failed() {
					failed++
					fmt.Fprintf(os.Stderr, "警告：%s（%s）优化失败：%s\n", item.Name, item.ID, res.Err)
					continue
				}
				item.Optimized = res.Optimized

				if apply {
					if err := applyItem(snap, item); err != nil {
						fmt.Fprintf(os.Stderr, "警告：%s 写回失败：%v\n", item.ID, err)
					}
				}
				rec := store.NewHistoryRecord(item.ID, item.Name, item.Original, res.Optimized, item.Category, item.Applied)
				if err := a.store.AddHistory(ctx, rec); err != nil {
					a.logger.Warn("history not recorded", zap.Error(err))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "完成：%d 成功，%d 失败\n", len(results)-failed, failed)

			if outPath != "" {
				data, err := export.Build(snap.Name, items).Render(export.Format(format))
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "结果已导出到 %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "ids", nil, "restrict the batch to these node ids")
	cmd.Flags().BoolVar(&apply, "apply", false, "write successful rewrites back into the snapshot")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "export the results to a file")
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "export format: json, csv, markdown")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export <snapshot.json>",
		Short: "Export the scanned text inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := document.Load(args[0])
			if err != nil {
				return err
			}
			items, err := snap.Scan()
			if err != nil {
				return err
			}

			data, err := export.Build(snap.Name, items).Render(export.Format(format))
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0644)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "json, csv, or markdown")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

// newRevertCmd restores the original text of a previously applied
// rewrite, using the newest history record for the node.
func newRevertCmd() *cobra.Command {
	var nodeID string

	cmd := &cobra.Command{
		Use:   "revert <snapshot.json>",
		Short: "Restore the original text of an applied rewrite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			var original string
			found := false
			for _, rec := range a.store.History() {
				if rec.NodeID == nodeID {
					original = rec.Original
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no history record for node %s", nodeID)
			}

			snap, err := document.Load(args[0])
			if err != nil {
				return err
			}
			if err := snap.SetText(nodeID, original); err != nil {
				return err
			}
			if err := snap.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已还原原文")
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "id", "", "node id of the text element")
	cmd.MarkFlagRequired("id")
	return cmd
}

// requestFor merges the active agent's configuration with the global
// terms and rules for one scanned item.
func (a *app) requestFor(item *document.TextItem) optimize.Request {
	settings := a.store.Settings()
	agent := a.store.ActiveAgent()

	terms := append([]prompt.BrandTerm{}, settings.GlobalBrandTerms...)
	terms = append(terms, agent.BrandTerms...)
	rules := append([]prompt.Rule{}, settings.GlobalRules...)
	rules = append(rules, agent.Rules...)

	return optimize.Request{
		Text:         item.Original,
		Category:     item.Category,
		Context:      item.Context,
		BrandTerms:   terms,
		Rules:        rules,
		SystemPrompt: agent.SystemPrompt,
		Reference:    a.store.Reference(item.Category),
	}
}

// applyItem writes the rewrite into the snapshot file and flags the
// item.
func applyItem(snap *document.Snapshot, item *document.TextItem) error {
	if err := snap.SetText(item.ID, item.Optimized); err != nil {
		return err
	}
	if err := snap.Save(); err != nil {
		return err
	}
	item.Applied = true
	return nil
}

// findItem scans the snapshot and picks one element by node id
func findItem(snap *document.Snapshot, nodeID string) (*document.TextItem, error) {
	items, err := snap.Scan()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == nodeID {
			return item, nil
		}
	}
	return nil, fmt.Errorf("text element %s: %w", nodeID, document.ErrNodeNotFound)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}
	return s
}
