package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"webmention/internal/mention"
	"webmention/pkg/logger"
	"webmention/pkg/serrors"
)

// VerifyMentionWorker is a River worker that verifies and records one queued
// submission. Fetch failures are not job failures: they are recorded as
// FETCH_ERROR mentions by the service and the job completes.
type VerifyMentionWorker struct {
	river.WorkerDefaults[mention.JobArgs]

	service mention.Service
}

// NewVerifyMentionWorker constructs a worker delegating to service.
func NewVerifyMentionWorker(service mention.Service) *VerifyMentionWorker {
	return &VerifyMentionWorker{service: service}
}

// Work processes a single job. A pair that no longer passes validation, for
// example because the allowlist changed since it was queued, cancels the job.
func (w *VerifyMentionWorker) Work(ctx context.Context, job *river.Job[mention.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("source", job.Args.Source),
		zap.String("target", job.Args.Target))

	m, err := w.service.Process(ctx, job.Args.Source, job.Args.Target)
	if err != nil {
		if errors.Is(err, serrors.ErrInvalidInput) || errors.Is(err, serrors.ErrDomainNotAllowed) {
			logger.Warn(ctx, "dropping queued mention", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error in processing mention", zap.Error(err))

		return fmt.Errorf("could not process mention: %w", err)
	}

	logger.Info(ctx, "queued mention processed", zap.String("status", string(m.Status)))

	return nil
}
