package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs. Only the postgres backend provides it;
// it is required when verification runs asynchronously.
//
//go:generate mockgen -package mockstorage -source=job.go -destination=mock/mockjobstorage.go *
type JobStorage interface {
	// AddJob inserts a job and reports whether a new row was created (false when
	// River skipped it as a duplicate).
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
