package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"webmention/internal/verifier"
	"webmention/pkg/domain"
)

func TestState_Transitions(t *testing.T) {
	require.True(t, verifier.StateReceived.CanTransitionTo(verifier.StateFetching))
	require.False(t, verifier.StateReceived.CanTransitionTo(verifier.StateVerified))

	for _, s := range []verifier.State{verifier.StateVerified, verifier.StateRejected, verifier.StateFetchError} {
		require.True(t, verifier.StateFetching.CanTransitionTo(s))
		require.True(t, s.Terminal())
		require.False(t, s.CanTransitionTo(verifier.StateFetching))
	}
	require.False(t, verifier.StateFetching.Terminal())
}

func TestState_Status(t *testing.T) {
	cases := map[verifier.State]domain.MentionStatus{
		verifier.StateVerified:   domain.MentionStatusVerified,
		verifier.StateRejected:   domain.MentionStatusRejected,
		verifier.StateFetchError: domain.MentionStatusFetchError,
	}
	for state, want := range cases {
		got, ok := state.Status()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := verifier.StateFetching.Status()
	require.False(t, ok)
}
