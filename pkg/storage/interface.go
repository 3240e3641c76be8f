// Package storage defines the persistence contracts of the webmention receiver.
// Backends live in sub-packages: memory (go-cache), redis and postgres.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"webmention/pkg/domain"
)

// MentionStorage is the mention log: an append-only sequence of mentions per
// normalized target URL, kept in submission order.
type MentionStorage interface {
	// AppendMention appends m to the log of m.Target, creating the log when it
	// does not exist. Implementations must append atomically so concurrent
	// submissions for one target never lose records.
	AppendMention(ctx context.Context, m domain.Mention) error
	// MentionsByTarget returns the log of target in insertion order. A missing
	// log yields an empty, non-nil slice.
	MentionsByTarget(ctx context.Context, target string) ([]domain.Mention, error)
}

// Storage is a mention log backend with a lifecycle.
type Storage interface {
	MentionStorage

	// Close releases the backend's connections.
	Close() error
}

// HealthChecker is implemented by backends that can report whether they are
// ready to serve requests.
type HealthChecker interface {
	Health(ctx context.Context) error
}
