package storage

import "errors"

var (
	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("storage closed")
	// ErrInvalidMention is returned when a mention without a target or with an
	// unknown status is appended.
	ErrInvalidMention = errors.New("invalid mention")
)
