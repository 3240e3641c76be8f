package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webmention/internal/api"
	"webmention/internal/api/handler"
	"webmention/internal/config"
	"webmention/internal/mention"
	"webmention/internal/verifier"
	"webmention/internal/worker"
	"webmention/pkg/logger"
	"webmention/pkg/storage"
)

func setupServer(ctx context.Context, cfg *config.Config, service mention.Service, strg storage.Storage) func(ctx context.Context) {
	deps := api.Deps{Deps: handler.Deps{Mentions: service}}
	if hc, ok := strg.(storage.HealthChecker); ok {
		deps.Health = hc
	}

	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the webmention endpoint and, in async mode, the verification workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, pg, closeStrg := getStorage(ctx, cfg)
			defer closeStrg()

			var jobs storage.JobStorage
			if pg != nil {
				jobs = pg
			}

			options := mention.NewOptions(cfg)
			if options.AllowList.Len() == 0 {
				logger.Warn(ctx, "no allowed domains configured, every submission will be rejected")
			}

			service := mention.New(strg, jobs, verifier.New(verifier.NewHTTPFetcher(verifier.NewFetcherOptions(cfg))), options)

			stopWorkers := func(context.Context) {}
			if cfg.Webmention.Async {
				riverClient, err := worker.Start(ctx, pg.Pool, service, cfg.Worker.MaxWorkers)
				if err != nil {
					logger.Fatal(ctx, "could not start workers", zap.Error(err))
				}
				stopWorkers = func(ctx context.Context) {
					logger.Info(ctx, "stopping workers...")
					if err := riverClient.Stop(ctx); err != nil {
						logger.Error(ctx, "could not stop workers", zap.Error(err))
					}
				}
			}

			stopWebserver := setupServer(ctx, cfg, service, strg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorkers(shutdownCtx)
		},
	}

	return cmd
}
