package mention

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"webmention/internal/config"
	"webmention/internal/verifier"
	"webmention/internal/weburl"
	"webmention/pkg/domain"
	"webmention/pkg/logger"
	"webmention/pkg/serrors"
	"webmention/pkg/storage"
)

// Messages attached to rejected submissions and queries. Clients see them in
// error responses.
const (
	ReasonSourceMissing    = "Source not found"
	ReasonTargetMissing    = "Target not found"
	ReasonInvalidSource    = "Invalid source"
	ReasonInvalidTarget    = "Invalid target"
	ReasonTargetNotAllowed = "Target not allowed by this server"

	ReasonQueryInvalidURL = "Bad request: invalid URL"
	ReasonQueryNotAllowed = "Bad request: URL not in allowed list"
)

// Options configure which targets are accepted and how submissions run.
type Options struct {
	// AllowList holds the target domains this server accepts. An empty list
	// rejects every target.
	AllowList weburl.AllowList
	// Async defers verification to a background worker.
	Async bool
	// Now returns the time stamped on recorded mentions. Defaults to time.Now.
	Now func() time.Time
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		AllowList: weburl.ParseAllowList(cfg.Webmention.AllowedDomains),
		Async:     cfg.Webmention.Async,
	}
}

// Submission is the accepted form of a submitted pair.
type Submission struct {
	// Source and Target are the normalized URLs.
	Source string
	Target string
	// Mention is the recorded outcome; nil when the pair was queued.
	Mention *domain.Mention
}

// Queued reports whether verification was deferred to a worker.
func (s *Submission) Queued() bool { return s.Mention == nil }

// service is the concrete implementation of the Service interface.
type service struct {
	options  Options
	storage  storage.MentionStorage
	jobs     storage.JobStorage
	verifier verifier.Verifier
}

// New creates a Service recording to st and verifying with v. jobs may be nil
// unless options.Async is set.
func New(st storage.MentionStorage, jobs storage.JobStorage, v verifier.Verifier, options Options) Service {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &service{
		options:  options,
		storage:  st,
		jobs:     jobs,
		verifier: v,
	}
}

func (s *service) Submit(ctx context.Context, rawSource, rawTarget string) (*Submission, error) {
	source, target, err := s.accept(rawSource, rawTarget)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithFields(ctx, zap.Stringer("source", source), zap.Stringer("target", target))

	if !s.options.Async {
		m, err := s.record(ctx, source, target)
		if err != nil {
			return nil, err
		}

		return &Submission{Source: m.Source, Target: m.Target, Mention: m}, nil
	}

	if s.jobs == nil {
		return nil, serrors.With(serrors.ErrUnavailable, "asynchronous verification is not available")
	}

	if _, err := s.jobs.AddJob(ctx, JobArgs{Source: source.String(), Target: target.String()}, nil); err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not queue verification")
	}
	logger.Debug(ctx, "verification queued")

	return &Submission{Source: source.String(), Target: target.String()}, nil
}

func (s *service) Process(ctx context.Context, rawSource, rawTarget string) (*domain.Mention, error) {
	source, target, err := s.accept(rawSource, rawTarget)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, source, target)
}

func (s *service) Mentions(ctx context.Context, rawTarget string) ([]domain.Mention, error) {
	if rawTarget == "" {
		return nil, serrors.With(serrors.ErrInvalidInput, ReasonQueryInvalidURL)
	}
	target, err := weburl.Normalize(rawTarget)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInvalidInput, err, ReasonQueryInvalidURL)
	}
	if !s.options.AllowList.AllowsURL(target) {
		return nil, serrors.With(serrors.ErrDomainNotAllowed, ReasonQueryNotAllowed)
	}

	mentions, err := s.storage.MentionsByTarget(ctx, target.String())
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not load mentions")
	}
	if mentions == nil {
		mentions = []domain.Mention{}
	}

	return mentions, nil
}

// accept runs the checks every submission passes before anything is fetched:
// presence, URL validity and the target allowlist.
func (s *service) accept(rawSource, rawTarget string) (*url.URL, *url.URL, error) {
	if rawSource == "" {
		return nil, nil, serrors.With(serrors.ErrInvalidInput, ReasonSourceMissing)
	}
	if rawTarget == "" {
		return nil, nil, serrors.With(serrors.ErrInvalidInput, ReasonTargetMissing)
	}

	source, err := weburl.Normalize(rawSource)
	if err != nil {
		return nil, nil, serrors.Wrap(serrors.ErrInvalidInput, err, ReasonInvalidSource)
	}
	target, err := weburl.Normalize(rawTarget)
	if err != nil {
		return nil, nil, serrors.Wrap(serrors.ErrInvalidInput, err, ReasonInvalidTarget)
	}

	if !s.options.AllowList.AllowsURL(target) {
		return nil, nil, serrors.With(serrors.ErrDomainNotAllowed, ReasonTargetNotAllowed)
	}

	return source, target, nil
}

// record verifies the pair and appends the outcome. Once started it is not
// cancelled with ctx: every attempt that reaches the fetch must be recorded,
// and the fetcher's own timeout bounds the work.
func (s *service) record(ctx context.Context, source, target *url.URL) (*domain.Mention, error) {
	ctx = context.WithoutCancel(ctx)
	out := s.verifier.Verify(ctx, source, target)

	m := domain.Mention{
		Source:    source.String(),
		Target:    target.String(),
		Status:    out.Status,
		CreatedAt: s.options.Now().UTC(),
	}
	if err := s.storage.AppendMention(ctx, m); err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not record mention")
	}

	logger.Info(ctx, "mention recorded", zap.String("status", string(m.Status)), zap.String("format", string(out.Format)))

	return &m, nil
}
