package storage

import "webmention/pkg/domain"

// DefaultKeyPrefix namespaces mention logs in key-value backends.
const DefaultKeyPrefix = "webmention:"

// Validate checks that m can be appended to a log.
func Validate(m domain.Mention) error {
	if m.Target == "" || !m.Status.Valid() {
		return ErrInvalidMention
	}

	return nil
}

// Key returns the key-value key holding the log of target.
func Key(prefix, target string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return prefix + target
}
