package verifier

import (
	"context"
	"net/url"
)

// Verifier decides whether a source document links to a target.
//
//go:generate mockgen -package mockverifier -source=interface.go -destination=mock/mockverifier.go *
type Verifier interface {
	// Verify fetches source and scans it for target. Both URLs must already be
	// normalized. Verify never fails: fetch problems are reported through the
	// outcome's status.
	Verify(ctx context.Context, source, target *url.URL) Outcome
}

// Fetcher retrieves a source document. It is the only component performing
// outbound network requests.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*Document, error)
}
