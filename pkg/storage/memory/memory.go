// Package memory keeps mention logs in process memory. Logs are lost on
// restart; it suits development and single-instance deployments.
package memory

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"webmention/pkg/domain"
	"webmention/pkg/storage"
)

// Memory implements storage.Storage on top of go-cache. Logs never expire.
type Memory struct {
	// mu serializes appends so the read-modify-write of a log is atomic.
	mu        sync.Mutex
	cache     *gocache.Cache
	keyPrefix string
	closed    bool
}

var (
	_ storage.Storage       = (*Memory)(nil)
	_ storage.HealthChecker = (*Memory)(nil)
)

// New creates an empty in-memory mention store.
func New(keyPrefix string) *Memory {
	return &Memory{
		cache:     gocache.New(gocache.NoExpiration, 0),
		keyPrefix: keyPrefix,
	}
}

func (m *Memory) AppendMention(_ context.Context, mention domain.Mention) error {
	if err := storage.Validate(mention); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return storage.ErrClosed
	}

	key := storage.Key(m.keyPrefix, mention.Target)
	var log []domain.Mention
	if v, found := m.cache.Get(key); found {
		log = v.([]domain.Mention) //nolint: forcetypeassert
	}
	// always copy so slices handed out by MentionsByTarget are never aliased
	next := make([]domain.Mention, len(log), len(log)+1)
	copy(next, log)
	m.cache.Set(key, append(next, mention), gocache.NoExpiration)

	return nil
}

func (m *Memory) MentionsByTarget(_ context.Context, target string) ([]domain.Mention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, storage.ErrClosed
	}

	v, found := m.cache.Get(storage.Key(m.keyPrefix, target))
	if !found {
		return []domain.Mention{}, nil
	}
	log := v.([]domain.Mention) //nolint: forcetypeassert

	out := make([]domain.Mention, len(log))
	copy(out, log)

	return out, nil
}

// Health fails once the store has been closed.
func (m *Memory) Health(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return storage.ErrClosed
	}

	return nil
}

// Close drops every log.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.cache.Flush()

	return nil
}
