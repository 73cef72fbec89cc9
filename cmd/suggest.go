package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzi/internal/llm"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <topic>",
	Short: "Ask an LLM for new cards on a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		save, _ := cmd.Flags().GetBool("save")
		topic := strings.Join(args, " ")

		llmCfg, err := llm.Resolve(llm.Settings{
			Provider:   cfg.LLM.Provider,
			Model:      cfg.LLM.Model,
			MaxRetries: cfg.LLM.MaxRetries,
		})
		if err != nil {
			return fmt.Errorf("configure LLM: %w", err)
		}

		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		provider, err := llm.New(ctx, llmCfg, p.store.EventRepo())
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		cards := p.session.Cards()
		known := make([]string, len(cards))
		for i, c := range cards {
			known[i] = c.Character
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Asking %s (%s) about %q...\n", provider.Name(), provider.ModelID(), topic)
		drafts, err := suggest.New(provider, suggest.DefaultConfig()).Suggest(ctx, topic, count, known)
		if err != nil {
			return fmt.Errorf("suggest cards: %w", err)
		}

		for _, d := range drafts {
			reading := d.Pinyin
			if d.Zhuyin != "" {
				reading += " / " + d.Zhuyin
			}
			fmt.Printf("%-6s  %-24s  %s\n", d.Character, reading, d.Meaning)
		}

		if !save {
			return nil
		}
		res, err := p.session.Dispatch(cmd.Context(), session.Import{Drafts: drafts})
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d cards (%d skipped).\n", res.Added, res.Skipped)
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntP("count", "n", 10, fmt.Sprintf("Number of cards to ask for (max %d)", suggest.MaxCount))
	suggestCmd.Flags().Bool("save", false, "Add the suggested cards to the profile")
}
