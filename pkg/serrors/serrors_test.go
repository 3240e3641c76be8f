package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"webmention/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type fetchErr struct{ host string }

func (e fetchErr) Error() string { return "dial " + e.host }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrInvalidInput,
		serrors.ErrDomainNotAllowed,
		serrors.ErrFetchFailure,
		serrors.ErrUnavailable,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for _, k := range kinds {
		require.False(t, seen[k], "duplicate kind %v", k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")

	require.Equal(t, "Invalid source", serrors.With(serrors.ErrInvalidInput, "Invalid %s", "source").Error())
	require.Equal(t, "fetching source: connection refused",
		serrors.Wrap(serrors.ErrFetchFailure, cause, "fetching source").Error())
	require.Equal(t, "DOMAIN_NOT_ALLOWED", serrors.KindOnly(serrors.ErrDomainNotAllowed).Error())
}

func TestIsAndAs(t *testing.T) {
	cause := fetchErr{host: "a.example"}
	err := serrors.Wrap(serrors.ErrFetchFailure, cause, "fetching")

	require.ErrorIs(t, err, serrors.ErrFetchFailure)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, serrors.ErrInvalidInput)

	var fe fetchErr
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "a.example", fe.host)
}

func TestKindOfAndMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", serrors.With(serrors.ErrDomainNotAllowed, "Target not allowed by this server"))

	require.Equal(t, serrors.ErrDomainNotAllowed, serrors.KindOf(wrapped))
	require.Equal(t, "Target not allowed by this server", serrors.MessageOf(wrapped))

	plain := errors.New("boom")
	require.Equal(t, serrors.ErrInternal, serrors.KindOf(plain))
	require.Equal(t, "INTERNAL", serrors.MessageOf(plain))

	require.Equal(t, serrors.ErrInvalidInput, serrors.KindOf(serrors.ErrInvalidInput))
}
