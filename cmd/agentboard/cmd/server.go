package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/b-harvest/agentboard-backend/server"
)

func ServerCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "run web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			a := newApp(cfg, logger)
			s := server.New(cfg, a.store, a.board, a.registry, logger.Named("server"))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.RunBackgroundUpdater(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("background updater stopped", zap.Error(err))
				}
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				logger.Info("starting server",
					zap.String("addr", cfg.BindAddr),
					zap.Int("tracked_tokens", len(cfg.TrackedTokens)))
				if err := s.Start(cfg.BindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			<-sigs
			signal.Reset(syscall.SIGINT, syscall.SIGTERM)

			logger.Info("gracefully shutting down")
			cancel()
			if err := s.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
				logger.Error("failed to shutdown server", zap.Error(err))
			}
			wg.Wait()

			return nil
		},
	}
	return cmd
}
