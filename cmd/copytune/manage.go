package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"copytune/internal/category"
	"copytune/internal/config"
	"copytune/internal/llm"
	"copytune/internal/optimize"
	"copytune/internal/store"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage optimization agents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			settings := a.store.Settings()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\t")
			for _, agent := range settings.Agents {
				marker := ""
				if agent.ID == settings.ActiveAgentID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", agent.ID, agent.Name, agent.Description, marker)
			}
			return w.Flush()
		},
	})

	var description, systemPrompt string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			agent := store.NewAgent(args[0], description)
			agent.SystemPrompt = systemPrompt
			if err := a.store.AddAgent(ctx, agent); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), agent.ID)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "what this agent is for")
	add.Flags().StringVar(&systemPrompt, "system-prompt", "", "persona override for the model")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "use <id>",
		Short: "Make an agent active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.SetActiveAgent(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.DeleteAgent(cmd.Context(), args[0])
		},
	})

	return cmd
}

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage saved model configurations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			settings := a.store.Settings()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tMODEL\t")
			for _, m := range settings.SavedModels {
				marker := ""
				if m.ID == settings.ActiveModelID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Provider, m.ModelName(), marker)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "options",
		Short: "Show the model presets per provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tNAME\tDESCRIPTION")
			for _, o := range config.ModelOptions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Provider, o.Model, o.Name, o.Description)
			}
			return w.Flush()
		},
	})

	var name, model, apiKey, baseURL, customModel string
	add := &cobra.Command{
		Use:   "add <provider>",
		Short: "Register a model configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			cfg := llm.ModelConfig{
				Provider:    llm.Provider(args[0]),
				Model:       model,
				APIKey:      apiKey,
				BaseURL:     baseURL,
				CustomModel: customModel,
			}
			// construct once to validate provider and credentials
			if _, err := llm.New(cfg, a.cfg.RequestTimeout()); err != nil {
				return err
			}

			saved := store.NewSavedModel(name, cfg)
			if err := a.store.AddModel(ctx, saved); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "display name, defaults to provider/model")
	add.Flags().StringVar(&model, "model", "", "model identifier, e.g. gpt-4o")
	add.Flags().StringVar(&apiKey, "api-key", "", "provider API key")
	add.Flags().StringVar(&baseURL, "base-url", "", "endpoint for compatible providers")
	add.Flags().StringVar(&customModel, "custom-model", "", "model name override for compatible providers")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "use <id>",
		Short: "Make a saved model active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.SetActiveModel(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a saved model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.DeleteModel(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "test [id]",
		Short: "Probe a saved model with a trivial rewrite",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			var client llm.Client
			if len(args) == 1 {
				settings := a.store.Settings()
				var found *store.SavedModel
				for i := range settings.SavedModels {
					if settings.SavedModels[i].ID == args[0] {
						found = &settings.SavedModels[i]
						break
					}
				}
				if found == nil {
					return fmt.Errorf("model %s: %w", args[0], store.ErrNotFound)
				}
				client, err = llm.New(found.ModelConfig, a.cfg.RequestTimeout())
				if err != nil {
					return err
				}
			} else {
				client, _, err = a.activeClient()
				if err != nil {
					return err
				}
			}

			ok, msg := optimize.TestConnection(ctx, client)
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			if !ok {
				return fmt.Errorf("connection test failed")
			}
			return nil
		},
	})

	return cmd
}

func newTermCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Manage global brand terms",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List brand terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWRONG\tCORRECT\tENABLED")
			for _, t := range a.store.Settings().GlobalBrandTerms {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", t.ID, t.Wrong, t.Correct, t.Enabled)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <wrong> <correct>",
		Short: "Add a substitution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			term, err := store.NewBrandTerm(args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.store.AddBrandTerm(ctx, term); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), term.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a substitution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.RemoveBrandTerm(cmd.Context(), args[0])
		},
	})

	return cmd
}

func newRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage global optimization rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tCONTENT\tENABLED")
			for _, r := range a.store.Settings().GlobalRules {
				cat := string(r.Category)
				if cat == "" {
					cat = "all"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", r.ID, cat, r.Content, r.Enabled)
			}
			return w.Flush()
		},
	})

	var cat string
	add := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a rule, optionally scoped to one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			c := category.Category(cat)
			if cat != "" && !c.Valid() {
				return fmt.Errorf("unknown category %q", cat)
			}
			rule := store.NewRule(args[0], c)
			if err := a.store.AddRule(ctx, rule); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rule.ID)
			return nil
		},
	}
	add.Flags().StringVar(&cat, "category", "", "restrict the rule to one category")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.RemoveRule(cmd.Context(), args[0])
		},
	})

	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past rewrites, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tNODE\tCATEGORY\tORIGINAL\tOPTIMIZED\tAPPLIED")
			for _, rec := range a.store.History() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
					rec.Timestamp.Format("2006-01-02 15:04"),
					rec.NodeName, rec.Category,
					firstLine(rec.Original), firstLine(rec.Optimized), rec.Applied)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.store.ClearHistory(cmd.Context())
		},
	})

	return cmd
}
