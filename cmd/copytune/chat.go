package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"copytune/internal/document"
	"copytune/internal/llm"
	"copytune/internal/prompt"
)

// newChatCmd starts an interactive refinement session for one text
// element. Each turn carries the full conversation so the model can
// iterate on its own suggestions.
func newChatCmd() *cobra.Command {
	var nodeID string

	cmd := &cobra.Command{
		Use:   "chat <snapshot.json>",
		Short: "Discuss one text element with the active model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			_, model, err := a.activeClient()
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

			settings := a.store.Settings()
			agent := a.store.ActiveAgent()
			terms := append([]prompt.BrandTerm{}, settings.GlobalBrandTerms...)
			terms = append(terms, agent.BrandTerms...)
			rules := append([]prompt.Rule{}, settings.GlobalRules...)
			rules = append(rules, agent.Rules...)

			system := prompt.BuildChatSystem(item.Category, item.Context, terms, rules)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "当前文案：%s\n位置：%s\n输入修改意见，exit 退出。\n\n", item.Original, item.Context)

			var history []llm.Turn
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				userMessage := line
				if len(history) == 0 {
					userMessage = fmt.Sprintf("原文案：%s\n\n%s", item.Original, line)
				}

				reply, err := llm.Chat(ctx, model, a.cfg.RequestTimeout(), system, history, userMessage)
				if err != nil {
					fmt.Fprintf(os.Stderr, "错误：%v\n", err)
					continue
				}

				history = append(history,
					llm.Turn{Role: "user", Content: userMessage},
					llm.Turn{Role: "assistant", Content: reply},
				)
				fmt.Fprintf(out, "%s\n\n", reply)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&nodeID, "id", "", "node id of the text element")
	cmd.MarkFlagRequired("id")
	return cmd
}
