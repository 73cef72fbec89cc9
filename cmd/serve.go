package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/hanzi/internal/auth"
	"github.com/abhisek/hanzi/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the flashcard JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		secret := cfg.Server.Secret
		if secret == "" {
			secret, err = randomSecret()
			if err != nil {
				return err
			}
			logger.Warn("server.secret is not set; sessions will not survive a restart")
		}

		srv := server.New(server.Options{
			Store:        s,
			Issuer:       auth.NewIssuer(secret, cfg.Server.TokenTTL),
			Hasher:       auth.NewHasher(),
			Limiter:      server.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
			SecureCookie: cfg.Server.SecureCookie,
			Logger:       logger,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx, cfg.Server.Addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			if ctx.Err() != nil {
				logger.Info("stop signal received")
			}
			return nil
		})
		if err := g.Wait(); err != nil && err != context.Canceled {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8080)")
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
