package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"copytune/internal/document"
	"copytune/internal/tui"
)

// newReviewCmd opens the interactive review screen for a snapshot
func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <snapshot.json>",
		Short: "Review and rewrite a snapshot interactively",
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

			app, err := tui.NewApp(ctx, snap, a.store, opt)
			if err != nil {
				return err
			}

			p := tea.NewProgram(app, tea.WithAltScreen())
			app.SetProgram(p)
			_, err = p.Run()
			return err
		},
	}
}
