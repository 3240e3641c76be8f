// Package handler serves the webmention endpoint: form-encoded submissions and
// mention queries share one path and are told apart by the request itself.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"webmention/internal/mention"
	"webmention/pkg/domain"
	"webmention/pkg/logger"
	"webmention/pkg/serrors"
)

const (
	formMediaType = "application/x-www-form-urlencoded"

	// DefaultMaxFormBytes bounds a submission body when no limit is configured.
	DefaultMaxFormBytes = 64 << 10

	// ReasonInvalidForm is reported for bodies that are not valid form data.
	ReasonInvalidForm = "Invalid form data"
	// ReasonFormTooLarge is reported for bodies over the configured limit.
	ReasonFormTooLarge = "Form data too large"
)

// Deps groups the services the handler delegates to.
type Deps struct {
	Mentions mention.Service
}

// Options configure request handling.
type Options struct {
	// MaxFormBytes limits the size of a submission body.
	MaxFormBytes int64
}

// Handler is the webmention endpoint.
type Handler struct {
	deps    Deps
	options Options
}

var _ http.Handler = (*Handler)(nil)

func New(deps Deps, options Options) *Handler {
	if options.MaxFormBytes <= 0 {
		options.MaxFormBytes = DefaultMaxFormBytes
	}

	return &Handler{deps: deps, options: options}
}

// ServeHTTP dispatches a form-encoded request as a submission, whatever its
// method, and any other GET as a query for its url parameter. Anything else
// is a bad request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case isForm(r):
		h.submit(w, r)
	case r.Method == http.MethodGet:
		h.query(w, r)
	default:
		writeText(w, http.StatusBadRequest, "Bad request")
	}
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))

	return err == nil && mediaType == formMediaType
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := h.readForm(w, r)
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	sub, err := h.deps.Mentions.Submit(ctx, form.Get("source"), form.Get("target"))
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	if sub.Queued() {
		writeText(w, http.StatusAccepted, fmt.Sprintf("Accepted: %s -> %s", sub.Source, sub.Target))

		return
	}

	status, prefix := submissionResponse(sub.Mention.Status)
	writeText(w, status, fmt.Sprintf("%s: %s -> %s", prefix, sub.Source, sub.Target))
}

func submissionResponse(s domain.MentionStatus) (int, string) {
	switch s {
	case domain.MentionStatusVerified:
		return http.StatusOK, "Good link"
	case domain.MentionStatusFetchError:
		return http.StatusInternalServerError, "Internal server error"
	case domain.MentionStatusRejected:
		return http.StatusBadRequest, "Bad link"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.options.MaxFormBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.Wrap(serrors.ErrInvalidInput, err, ReasonFormTooLarge)
		}

		return nil, serrors.Wrap(serrors.ErrInvalidInput, err, ReasonInvalidForm)
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInvalidInput, err, ReasonInvalidForm)
	}

	return form, nil
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mentions, err := h.deps.Mentions.Mentions(ctx, r.URL.Query().Get("url"))
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	var e jx.Encoder
	encodeMentions(&e, mentions)
	writeJSON(w, http.StatusOK, e.Bytes())
}

func encodeMentions(e *jx.Encoder, mentions []domain.Mention) {
	e.ArrStart()
	for _, m := range mentions {
		e.ObjStart()
		e.FieldStart("source")
		e.Str(m.Source)
		e.FieldStart("target")
		e.Str(m.Target)
		e.FieldStart("status")
		e.Str(string(m.Status))
		e.FieldStart("createdAt")
		e.Str(m.CreatedAt.Format(time.RFC3339Nano))
		e.ObjEnd()
	}
	e.ArrEnd()
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Code    string
	Message string
}

// NewError maps err to an HTTP status and error body. Internal failures are
// logged and reported without their cause.
func (h *Handler) NewError(ctx context.Context, err error) (int, ErrorResponse) {
	kind := serrors.KindOf(err)

	var status int
	switch kind {
	case serrors.ErrInvalidInput, serrors.ErrDomainNotAllowed:
		status = http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
	case serrors.ErrFetchFailure:
		status = http.StatusBadGateway
	case serrors.ErrUnavailable:
		status = http.StatusServiceUnavailable
	default:
		logger.Error(ctx, "could not handle request", zap.Error(err))

		return http.StatusInternalServerError, ErrorResponse{
			Code:    serrors.ErrInternal.Error(),
			Message: "internal error",
		}
	}

	logger.Debug(ctx, "rejected request", zap.Error(err))

	return status, ErrorResponse{Code: kind.Error(), Message: serrors.MessageOf(err)}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, res := h.NewError(ctx, err)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Str(res.Code)
	e.FieldStart("message")
	e.Str(res.Message)
	e.ObjEnd()
	writeJSON(w, status, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
