package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/hanzi/internal/app"
)

var runCmd = &cobra.Command{
	Use:         "run",
	Short:       "Start the flashcard TUI (default)",
	Annotations: map[string]string{tuiAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the profile and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	p, err := openProfile(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	logger.Info("starting tui", "cards", len(p.session.Cards()), "session", p.session.SessionID())
	return app.Run(ctx, app.Options{
		Session: p.session,
		Events:  p.store.EventRepo(),
		UserID:  p.user.ID,
	})
}
