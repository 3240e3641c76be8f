package mention

import (
	"context"

	"webmention/pkg/domain"
)

// Service receives, verifies, records and serves webmentions.
//
//go:generate mockgen -package mockmention -source=interface.go -destination=mock/mockmention.go *
type Service interface {
	// Submit validates a raw source/target pair and, depending on the mode,
	// either verifies and records it immediately or queues it for a worker.
	Submit(ctx context.Context, rawSource, rawTarget string) (*Submission, error)
	// Process verifies and records a pair. It is what Submit runs in
	// synchronous mode and what the worker runs for queued submissions.
	Process(ctx context.Context, rawSource, rawTarget string) (*domain.Mention, error)
	// Mentions returns the log of a target in submission order.
	Mentions(ctx context.Context, rawTarget string) ([]domain.Mention, error)
}
