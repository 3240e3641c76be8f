package verifier

import "webmention/pkg/domain"

// State is a step of a single verification.
type State string

const (
	StateReceived   State = "RECEIVED"
	StateFetching   State = "FETCHING"
	StateVerified   State = "VERIFIED"
	StateRejected   State = "REJECTED"
	StateFetchError State = "FETCH_ERROR"
)

var transitions = map[State][]State{ //nolint: gochecknoglobals
	StateReceived: {StateFetching},
	StateFetching: {StateVerified, StateRejected, StateFetchError},
}

func (s State) String() string { return string(s) }

// CanTransitionTo reports whether next may follow s.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Status maps a terminal state to the recorded mention status. Non-terminal
// states have no status.
func (s State) Status() (domain.MentionStatus, bool) {
	switch s {
	case StateVerified:
		return domain.MentionStatusVerified, true
	case StateRejected:
		return domain.MentionStatusRejected, true
	case StateFetchError:
		return domain.MentionStatusFetchError, true
	case StateReceived, StateFetching:
	}

	return "", false
}
