package verifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"webmention/internal/config"
	"webmention/pkg/serrors"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 10
	DefaultMaxBodyBytes = 5 << 20
	DefaultUserAgent    = "webmention-receiver/1.0"
)

// ErrBlockedAddress is returned when a fetch would connect to a loopback,
// private, link-local or otherwise non-public address while such addresses
// are blocked.
var ErrBlockedAddress = errors.New("address not allowed")

// FetcherOptions bounds the resources a single fetch may use.
type FetcherOptions struct {
	// Timeout covers the whole exchange including redirects and body.
	Timeout time.Duration
	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects int
	// MaxBodyBytes caps how much of the body is read; the rest is ignored.
	MaxBodyBytes int64
	// UserAgent is sent with every request.
	UserAgent string
	// RatePerHost limits requests per second to one source host; zero disables.
	RatePerHost float64
	// Burst is the token bucket size of the per-host limiter.
	Burst int
	// BlockPrivateNetworks refuses connections to non-public addresses.
	BlockPrivateNetworks bool
}

func (o FetcherOptions) withDefaults() FetcherOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}

	return o
}

// Document is a successfully retrieved source.
type Document struct {
	// FinalURL is the URL after redirects.
	FinalURL    *url.URL
	StatusCode  int
	ContentType string
	Body        []byte
}

// HTTPFetcher fetches sources over HTTP. It is safe for concurrent use.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *HostLimiter
	userAgent string
	maxBytes  int64
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher builds a fetcher honoring opts. Zero values fall back to the
// package defaults.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	opts = opts.withDefaults()

	dialer := &net.Dialer{Timeout: opts.Timeout}
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint: forcetypeassert
	if opts.BlockPrivateNetworks {
		dialer.Control = refusePrivate
		transport.Proxy = nil
	}
	transport.DialContext = dialer.DialContext

	maxRedirects := opts.MaxRedirects

	var limiter *HostLimiter
	if opts.RatePerHost > 0 {
		limiter = NewHostLimiter(opts.RatePerHost, opts.Burst, 0)
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}

				return nil
			},
		},
		limiter:   limiter,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBodyBytes,
	}
}

// Fetch issues a GET for u and reads at most MaxBodyBytes of the body. Any
// HTTP status is a successful fetch; only transport and read failures are
// errors, always of kind serrors.ErrFetchFailure.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) (*Document, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, serrors.Wrap(serrors.ErrFetchFailure, err, "waiting for rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrFetchFailure, err, "could not create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrFetchFailure, err, "could not fetch source")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrFetchFailure, err, "could not read source body")
	}

	return &Document{
		FinalURL:    resp.Request.URL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func refusePrivate(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}

	addr := ap.Addr().Unmap()
	if !addr.IsGlobalUnicast() || addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}

	return nil
}

// NewFetcherOptions constructs FetcherOptions from the provided application config.
func NewFetcherOptions(cfg *config.Config) FetcherOptions {
	return FetcherOptions{
		Timeout:              cfg.Fetcher.Timeout,
		MaxRedirects:         cfg.Fetcher.MaxRedirects,
		MaxBodyBytes:         cfg.Fetcher.MaxBodyBytes,
		UserAgent:            cfg.Fetcher.UserAgent,
		RatePerHost:          cfg.Fetcher.RatePerHost,
		Burst:                cfg.Fetcher.Burst,
		BlockPrivateNetworks: cfg.Fetcher.BlockPrivateNetworks,
	}
}
