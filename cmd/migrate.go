package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webmention/internal/config"
	"webmention/pkg/logger"
)

// migrateCommand constructs the 'migrate' subcommand that applies the mention
// table and River queue migrations to the latest version.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			if err := strg.Migrate(ctx); err != nil {
				logger.Fatal(ctx, "could not migrate database", zap.Error(err))
			}

			logger.Info(ctx, "database migrated")
		},
	}

	return cmd
}
