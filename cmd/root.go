package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanzi/internal/config"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/store"
)

// tuiAnnotation marks commands that draw on the terminal and so must log
// to a file.
const tuiAnnotation = "tui"

var (
	cfgFile string
	cfg     *config.Config
	logger  = slog.Default()
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "hanzi",
	Short: "Spaced-repetition flashcards for Chinese characters",
	Long: "Hanzi — a terminal flashcard trainer for Chinese characters with spaced repetition,\n" +
		"four game modes and an optional JSON API.",
	Annotations:       map[string]string{tuiAnnotation: "true"},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/hanzi/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides HANZI_DB env var)")
	pf.String("profile", "", "Local profile whose cards are used")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Bool("log-json", false, "Log as JSON")
	pf.String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = c

	var w io.Writer = os.Stderr
	if cmd.Annotations[tuiAnnotation] != "" || cfg.Log.File != "" {
		fallback := ""
		if cmd.Annotations[tuiAnnotation] != "" {
			dir, err := store.DataDir()
			if err != nil {
				return err
			}
			fallback = filepath.Join(dir, "hanzi.log")
		}
		f, err := cfg.Log.OpenLogFile(fallback)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		w = f
	}
	logger = cfg.Log.NewLogger(w)
	slog.SetDefault(logger)
	return nil
}

// resolveDBPath returns the configured database path, falling back to
// HANZI_DB and then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// profile is the local user's card collection.
type profile struct {
	store   *store.Store
	user    *store.User
	session *session.Controller
}

// openProfile opens the database and loads the cards of the configured
// profile, creating the profile on first use. A failed load is logged and
// leaves the collection empty.
func openProfile(ctx context.Context) (*profile, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	u, err := s.UserRepo().Ensure(ctx, cfg.Profile)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open profile %s: %w", cfg.Profile, err)
	}

	ctrl := session.New(session.Options{
		Cards:   s.CardRepo(u.ID),
		Reviews: s.EventRepo(),
		UserID:  u.ID,
		Logger:  logger.With("profile", u.Name),
	})
	if err := ctrl.Load(ctx); err != nil {
		logger.Warn("continuing with an empty collection", "error", err)
	}
	return &profile{store: s, user: u, session: ctrl}, nil
}

func (p *profile) Close() error {
	return p.store.Close()
}
