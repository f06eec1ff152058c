package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"campodigital/api"
	"campodigital/api/health"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// campodigital worker
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Relay outbox events and serve health and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Worker.Enabled {
			logger.Info("Outbox worker is disabled by config; exiting")
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := NewBuilder(cfg).Build(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		return RunWorker(ctx, app, &gormdb.LoggingOutboxPublisher{})
	},
}

// RunWorker relays outbox events through publisher and serves the ops
// endpoints on worker.metrics_addr until ctx is done.
func RunWorker(ctx context.Context, app *App, publisher gormdb.OutboxPublisher) error {
	wc := app.Config.Worker
	worker, err := gormdb.NewOutboxWorker(app.Outbox, publisher, gormdb.OutboxWorkerConfig{
		PollInterval:    wc.PollInterval,
		BatchSize:       wc.BatchSize,
		MaxRetries:      wc.MaxRetries,
		PublishRate:     wc.PublishRate,
		ProcessingLease: wc.ProcessingLease,
	})
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox worker exited with error: %w", err)
		}
		return nil
	})

	if wc.MetricsAddr != "" {
		router := api.NewRouter(app.Config, health.NewController(app.Config, app.Session, app.Outbox))
		router.SetupRoutes()
		server := &http.Server{
			Addr:              wc.MetricsAddr,
			Handler:           router.GetEngine(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("Ops server listening", zap.String("addr", wc.MetricsAddr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("Worker stopped")
	return err
}
