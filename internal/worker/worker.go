// Package worker runs queued mention verifications on River.
package worker

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"webmention/internal/mention"
	"webmention/pkg/logger"
)

// DefaultMaxWorkers bounds concurrent verifications when no limit is configured.
const DefaultMaxWorkers = 20

// Start registers the verification worker and starts a River client processing
// the default queue with at most maxWorkers concurrent jobs.
func Start(ctx context.Context, dbPool *pgxpool.Pool, service mention.Service, maxWorkers int) (*river.Client[pgx.Tx], error) {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewVerifyMentionWorker(service))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger.Slog(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
