package domain

import "time"

// MentionStatus is the outcome of one verification attempt.
type MentionStatus string

const (
	// MentionStatusVerified means the source was fetched and links to the target.
	MentionStatusVerified MentionStatus = "VERIFIED"
	// MentionStatusRejected means the source was fetched but no link was found.
	MentionStatusRejected MentionStatus = "REJECTED"
	// MentionStatusFetchError means the source could not be fetched or read.
	MentionStatusFetchError MentionStatus = "FETCH_ERROR"
)

// Valid reports whether s is one of the known statuses.
func (s MentionStatus) Valid() bool {
	switch s {
	case MentionStatusVerified, MentionStatusRejected, MentionStatusFetchError:
		return true
	default:
		return false
	}
}

// Mention records a single submission attempt. Source and Target are
// normalized absolute http(s) URLs without fragments. Records are appended to
// the log of their target and never modified.
type Mention struct {
	// Source is the page claimed to link to Target.
	Source string `json:"source"`
	// Target is the mentioned page; its host satisfied the allowlist.
	Target string `json:"target"`
	// Status is the verification outcome.
	Status MentionStatus `json:"status"`
	// CreatedAt is when the outcome was recorded.
	CreatedAt time.Time `json:"createdAt"`
}
