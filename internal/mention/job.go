package mention

import (
	"github.com/riverqueue/river"
)

// JobArgs contains the arguments for a verification job submitted to River.
// Every accepted submission is its own job, so resubmitting a pair records it
// again.
type JobArgs struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Kind returns the River job kind used to register and dispatch the worker.
func (args JobArgs) Kind() string { return "VerifyMentionJob" }

// InsertOpts makes a job single-attempt: an unreachable source is recorded as
// FETCH_ERROR rather than retried.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 1,
	}
}
