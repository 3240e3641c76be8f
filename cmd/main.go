// Package main provides the CLI entrypoint for the webmention receiver.
// It wires subcommands (serve, migrate, verify), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webmention/internal/config"
	"webmention/pkg/logger"
	"webmention/pkg/storage"
	"webmention/pkg/storage/memory"
	"webmention/pkg/storage/postgres"
	"webmention/pkg/storage/redis"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getStorage opens the configured mention log backend. The postgres handle is
// returned separately (nil for other drivers) because it also serves the job
// queue.
func getStorage(ctx context.Context, cfg *config.Config) (storage.Storage, *postgres.PgSQL, func()) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pgsql, closePg := getPostgres(ctx, cfg)

		return pgsql, pgsql, closePg
	case config.DriverRedis:
		rds, err := redis.New(ctx, redis.Options{
			URL:          cfg.Redis.URL,
			KeyPrefix:    cfg.Storage.KeyPrefix,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Fatal(ctx, "could not create redis storage", zap.Error(err))
		}

		return rds, nil, func() {
			logger.Info(ctx, "closing redis client...")
			if err := rds.Close(); err != nil {
				logger.Warn(ctx, "could not close redis connection", zap.Error(err))
			}
		}
	default:
		logger.Warn(ctx, "using in-memory storage, mentions are lost on restart")

		mem := memory.New(cfg.Storage.KeyPrefix)

		return mem, nil, func() { _ = mem.Close() }
	}
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "webmention",
		Short: "Receives and verifies webmentions",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("c", "config.yml", "The config file path")
	_ = fs.Parse(configArgs(os.Args[1:]))

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		verifyCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs extracts the -c/--config flag from args so the config can be
// loaded before cobra parses the rest.
func configArgs(args []string) []string {
	for i, a := range args {
		switch {
		case (a == "-c" || a == "--config" || a == "-config") && i+1 < len(args):
			return []string{"-c", args[i+1]}
		case strings.HasPrefix(a, "-c="):
			return []string{a}
		case strings.HasPrefix(a, "--config="):
			return []string{"-c=" + strings.TrimPrefix(a, "--config=")}
		}
	}

	return nil
}
