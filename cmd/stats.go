package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show deck statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		st := p.session.Stats()
		fmt.Printf("Profile:         %s\n", p.user.Name)
		fmt.Printf("Cards:           %d\n", st.TotalCards)
		fmt.Printf("Due now:         %d\n", st.DueCount)
		fmt.Printf("Reviewed today:  %d\n", st.TodayReviewCount)
		fmt.Printf("Correct answers: %d\n", st.TotalCorrect)
		fmt.Printf("Total streak:    %d\n", st.TotalStreak)

		levels := make([]int, 8)
		for _, c := range p.session.Cards() {
			levels[min(c.Level, len(levels)-1)]++
		}
		fmt.Println()
		fmt.Println("Cards per level")
		fmt.Println(strings.Repeat("─", 40))
		for lvl, n := range levels {
			fmt.Printf("%d  %-30s %d\n", lvl, strings.Repeat("█", min(n, 30)), n)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show reviews per day and the latest answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")
		days = max(days, 1)

		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		ctx := cmd.Context()
		events := p.store.EventRepo()
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		counts, err := events.ReviewCountsByDay(ctx, p.user.ID, today.AddDate(0, 0, -(days-1)), now.Location())
		if err != nil {
			return fmt.Errorf("query review counts: %w", err)
		}
		if len(counts) == 0 {
			fmt.Println("No reviews yet.")
			return nil
		}

		fmt.Printf("%-10s  %7s  %7s  %s\n", "Day", "Reviews", "Correct", "Accuracy")
		fmt.Println(strings.Repeat("─", 40))
		for _, d := range counts {
			fmt.Printf("%-10s  %7d  %7d  %7d%%\n",
				d.Day.Format("2006-01-02"), d.Reviews, d.Correct, d.Correct*100/max(d.Reviews, 1))
		}

		recent, err := events.RecentReviews(ctx, p.user.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query recent reviews: %w", err)
		}
		chars := make(map[card.ID]string)
		for _, c := range p.session.Cards() {
			chars[c.ID] = c.Character
		}

		fmt.Println()
		fmt.Printf("%-19s  %-6s  %-16s  %-2s  %s\n", "Time", "Char", "Mode", "OK", "Level")
		fmt.Println(strings.Repeat("─", 60))
		for _, e := range recent {
			ok := "✓"
			if !e.Correct {
				ok = "✗"
			}
			char, found := chars[e.CardID]
			if !found {
				char = "?"
			}
			fmt.Printf("%-19s  %-6s  %-16s  %-2s  %d → %d\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), char, e.Mode, ok, e.LevelBefore, e.LevelAfter)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("days", 14, "Number of days to show")
	historyCmd.Flags().IntP("limit", "n", 10, "Number of latest answers to show")
}
