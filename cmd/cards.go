package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/deck"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add <character> <pinyin> <meaning>",
	Short: "Add a card",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		zhuyin, _ := cmd.Flags().GetString("zhuyin")
		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		res, err := p.session.Dispatch(cmd.Context(), session.Add{Draft: card.Draft{
			Character: args[0],
			Pinyin:    args[1],
			Zhuyin:    zhuyin,
			Meaning:   args[2],
		}})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s  %s  %s\n", res.Card.Character, res.Card.Pronunciation(), res.Card.Meaning)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dueOnly, _ := cmd.Flags().GetBool("due")
		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		cards := p.session.Cards()
		if dueOnly {
			cards = p.session.Due()
		}
		if len(cards) == 0 {
			fmt.Println("No cards found.")
			return nil
		}

		now := time.Now()
		fmt.Printf("%-6s  %-24s  %-24s  %-5s  %-8s  %-16s  %-14s  %s\n",
			"Char", "Reading", "Meaning", "Level", "Status", "Next review", "Due", "Right/Wrong")
		fmt.Println(strings.Repeat("─", 122))
		for _, c := range cards {
			fmt.Printf("%-6s  %-24s  %-24s  %-5d  %-8s  %-16s  %-14s  %d/%d\n",
				c.Character,
				truncate(c.Pronunciation(), 24),
				truncate(c.Meaning, 24),
				c.Level,
				spacedrep.Status(c, now),
				c.NextReview.Local().Format("2006-01-02 15:04"),
				dueColumn(c, now),
				c.CorrectCount,
				c.IncorrectCount,
			)
		}
		return nil
	},
}

// dueColumn describes when c is due relative to now.
func dueColumn(c card.Card, now time.Time) string {
	if days := spacedrep.DaysUntilReview(c, now); days > 0 {
		if days == 1 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", days)
	}
	if spacedrep.Status(c, now) == spacedrep.ReviewOverdue {
		return fmt.Sprintf("%.1fd overdue", spacedrep.OverdueDays(c, now))
	}
	return "now"
}

var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Import cards from a deck file, stdin or a git repository",
	Long: "Import cards from lines of character,pinyin,meaning or character,pinyin,zhuyin,meaning.\n" +
		"With --git every *.csv and *.txt file of the repository is imported.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("git")
		if url == "" && len(args) == 0 {
			return errors.New("give a deck file, - for stdin, or --git <url>")
		}

		drafts, err := readDrafts(cmd, args, url)
		if err != nil {
			return err
		}

		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		res, err := p.session.Dispatch(cmd.Context(), session.Import{Drafts: drafts})
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d cards (%d skipped).\n", res.Added, res.Skipped)
		return nil
	},
}

func readDrafts(cmd *cobra.Command, args []string, url string) ([]card.Draft, error) {
	if url != "" {
		root, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		dir := deck.RepoDir(root, url)
		if err := deck.SyncRepo(cmd.Context(), url, dir, cmd.ErrOrStderr()); err != nil {
			return nil, err
		}
		files, err := deck.Files(dir)
		if err != nil {
			return nil, err
		}
		var drafts []card.Draft
		for _, f := range files {
			d, err := deck.ParseFile(f)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, d...)
		}
		return drafts, nil
	}

	if args[0] == "-" {
		return deck.Parse(cmd.InOrStdin())
	}
	return deck.ParseFile(args[0])
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export cards as deck lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}
		bw := bufio.NewWriter(w)
		if err := deck.Export(bw, p.session.Cards()); err != nil {
			return fmt.Errorf("export cards: %w", err)
		}
		return bw.Flush()
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every card of the profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all cards of profile %q? [y/N] ", cfg.Profile)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		p, err := openProfile(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		n := len(p.session.Cards())
		if _, err := p.session.Dispatch(cmd.Context(), session.Clear{}); err != nil {
			return err
		}
		fmt.Printf("Deleted %d cards.\n", n)
		return nil
	},
}

func init() {
	addCmd.Flags().String("zhuyin", "", "Zhuyin (bopomofo) reading")
	listCmd.Flags().Bool("due", false, "Only cards due for review")
	importCmd.Flags().String("git", "", "Import every deck file of this git repository")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
