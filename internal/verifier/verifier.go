package verifier

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"webmention/internal/linkscan"
	"webmention/pkg/domain"
	"webmention/pkg/logger"
	"webmention/pkg/metrics"
)

const tracerName = "webmention/internal/verifier"

// Format is the document format a source was scanned as.
type Format string

const (
	FormatNone Format = "none"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// Outcome is the terminal result of one verification.
type Outcome struct {
	Status domain.MentionStatus
	// Format is FormatNone when the source could not be fetched.
	Format Format
	// Err is the fetch failure behind a FETCH_ERROR status.
	Err error
}

//nolint: gochecknoglobals
var (
	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webmention",
		Name:      "verifications_total",
		Help:      "Number of completed source verifications by status and scanned format.",
	}, []string{"status", "format"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "webmention",
		Name:      "source_fetch_duration_seconds",
		Help:      "Latency of source fetches.",
		Buckets:   metrics.DefaultBuckets,
	}, []string{"result"})

	sourceBodyBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "webmention",
		Name:      "source_body_bytes",
		Help:      "Size of fetched source bodies after truncation.",
		Buckets:   metrics.SizeBuckets,
	})
)

// verifier is the concrete implementation of the Verifier interface.
type verifier struct {
	fetcher Fetcher
	tracer  trace.Tracer
}

// New creates a Verifier that retrieves sources with fetcher.
func New(fetcher Fetcher) Verifier {
	return &verifier{
		fetcher: fetcher,
		tracer:  otel.Tracer(tracerName),
	}
}

// run tracks the state of a single verification.
type run struct {
	ctx   context.Context //nolint: containedctx
	state State
}

func (r *run) moveTo(next State) {
	if !r.state.CanTransitionTo(next) {
		logger.Warn(r.ctx, "unexpected verification state transition",
			zap.Stringer("from", r.state), zap.Stringer("to", next))
	}
	logger.Debug(r.ctx, "verification state changed",
		zap.Stringer("from", r.state), zap.Stringer("to", next))
	r.state = next
}

func (v *verifier) Verify(ctx context.Context, source, target *url.URL) Outcome {
	ctx, span := v.tracer.Start(ctx, "verifier.Verify",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("webmention.source", source.String()),
			attribute.String("webmention.target", target.String()),
		))
	defer span.End()

	r := &run{ctx: ctx, state: StateReceived}
	r.moveTo(StateFetching)

	start := time.Now()
	doc, err := v.fetcher.Fetch(ctx, source)
	if err != nil {
		fetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		logger.Info(ctx, "could not fetch source", zap.Error(err))

		return v.finish(r, span, StateFetchError, FormatNone, err)
	}
	fetchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	sourceBodyBytes.Observe(float64(len(doc.Body)))
	span.SetAttributes(attribute.Int("http.response.status_code", doc.StatusCode))

	found, format := scan(doc.Body, source, target)
	if found {
		return v.finish(r, span, StateVerified, format, nil)
	}

	return v.finish(r, span, StateRejected, format, nil)
}

func (v *verifier) finish(r *run, span trace.Span, final State, format Format, err error) Outcome {
	r.moveTo(final)

	status, _ := final.Status()

	verificationsTotal.WithLabelValues(string(status), string(format)).Inc()
	span.SetAttributes(attribute.String("webmention.status", string(status)))

	return Outcome{Status: status, Format: format, Err: err}
}

// scan looks for target in body. A body that is a valid JSON document is only
// scanned as JSON; anything else is treated as HTML resolved against source.
func scan(body []byte, source, target *url.URL) (bool, Format) {
	v, err := linkscan.ParseJSON(body)
	switch {
	case err == nil:
		return linkscan.JSONContainsURL(v, target), FormatJSON
	case errors.Is(err, linkscan.ErrTooDeep):
		return linkscan.RawJSONContainsURL(body, target), FormatJSON
	}

	return linkscan.HTMLContainsURL(body, target, source), FormatHTML
}
