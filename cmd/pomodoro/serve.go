package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/handler"
	"pomodoro/tracker/internal/router"
	"pomodoro/tracker/internal/scheduler"
	"pomodoro/tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the timer and its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			store, release, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer release()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pomodoroService := service.NewPomodoroService(ctx, store, nil, logger)

			ticks := scheduler.NewTickScheduler(func(ctx context.Context) {
				pomodoroService.Tick(ctx)
			}, cfg.Timer.TickInterval, logger)
			ticks.Start()

			if cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			engine := router.New(
				handler.NewPomodoroHandler(pomodoroService),
				handler.NewCatalogHandler(pomodoroService),
				router.Options{
					CORSOrigins:    cfg.Server.CORSOrigins,
					MetricsEnabled: cfg.Metrics.Enabled,
					Logger:         logger,
				},
			)

			srv := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           engine,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info().
					Str("addr", srv.Addr).
					Str("storage", cfg.Storage.Type).
					Str("path", cfg.Storage.Path).
					Msg("Pomodoro server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			var runErr error
			select {
			case <-ctx.Done():
				logger.Info().Msg("Shutting down")
			case runErr = <-serveErr:
				logger.Error().Err(runErr).Msg("HTTP server failed")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown failed")
			}
			ticks.Stop()
			if err := pomodoroService.Close(shutdownCtx); err != nil {
				return err
			}
			return runErr
		},
	}
}
