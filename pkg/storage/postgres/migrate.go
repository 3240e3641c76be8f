package postgres

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"

	root "webmention"
)

// Migrate brings the mention tables and the River queue tables to their
// latest versions.
func (p *PgSQL) Migrate(ctx context.Context) error {
	goose.SetBaseFS(root.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}
	if err := goose.UpContext(ctx, p.DB, "migrations"); err != nil {
		return fmt.Errorf("could not migrate pgsql: %w", err)
	}

	migrator, err := rivermigrate.New(riverdatabasesql.New(p.DB), nil)
	if err != nil {
		return fmt.Errorf("could not create river queue migrator: %w", err)
	}
	migrations := migrator.AllVersions()
	latestVersion := migrations[len(migrations)-1].Version
	currentVersion := 0
	currentMigrations, err := migrator.ExistingVersions(ctx)
	if err != nil {
		return fmt.Errorf("could not get existing river queue migrations: %w", err)
	}
	if len(currentMigrations) > 0 {
		currentVersion = currentMigrations[len(currentMigrations)-1].Version
	}
	if latestVersion > currentVersion {
		if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
			TargetVersion: latestVersion,
		}); err != nil {
			return fmt.Errorf("could not migrate river queue: %w", err)
		}
	}

	return nil
}
