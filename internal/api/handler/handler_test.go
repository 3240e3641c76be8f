package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"webmention/internal/api/handler"
	"webmention/internal/mention"
	mockmention "webmention/internal/mention/mock"
	"webmention/pkg/domain"
	"webmention/pkg/logger"
	"webmention/pkg/serrors"
)

const (
	source = "http://a.example/note"
	target = "http://b.example/post"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func newTestHandler(t *testing.T, opts handler.Options) (*mockmention.MockService, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mockmention.NewMockService(ctrl)

	return svc, handler.New(handler.Deps{Mentions: svc}, opts)
}

func formRequest(method, contentType string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", contentType)

	return req
}

func do(h http.Handler, req *http.Request) (*http.Response, string) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()
	body, _ := io.ReadAll(res.Body)

	return res, string(body)
}

func TestSubmit_Outcomes(t *testing.T) {
	tests := []struct {
		status domain.MentionStatus
		code   int
		body   string
	}{
		{domain.MentionStatusVerified, http.StatusOK, "Good link: " + source + " -> " + target},
		{domain.MentionStatusRejected, http.StatusBadRequest, "Bad link: " + source + " -> " + target},
		{domain.MentionStatusFetchError, http.StatusInternalServerError, "Internal server error: " + source + " -> " + target},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			svc, h := newTestHandler(t, handler.Options{})
			svc.EXPECT().Submit(gomock.Any(), source, target).Return(&mention.Submission{
				Source:  source,
				Target:  target,
				Mention: &domain.Mention{Source: source, Target: target, Status: tc.status},
			}, nil)

			res, body := do(h, formRequest(http.MethodPost, "application/x-www-form-urlencoded",
				url.Values{"source": {source}, "target": {target}}))
			require.Equal(t, tc.code, res.StatusCode)
			require.Equal(t, tc.body, body)
			require.Contains(t, res.Header.Get("Content-Type"), "text/plain")
		})
	}
}

func TestSubmit_Queued(t *testing.T) {
	svc, h := newTestHandler(t, handler.Options{})
	svc.EXPECT().Submit(gomock.Any(), source, target).Return(&mention.Submission{Source: source, Target: target}, nil)

	res, body := do(h, formRequest(http.MethodPost, "application/x-www-form-urlencoded",
		url.Values{"source": {source}, "target": {target}}))
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	require.Equal(t, "Accepted: "+source+" -> "+target, body)
}

func TestSubmit_DispatchByMediaType(t *testing.T) {
	for _, tc := range []struct {
		method      string
		contentType string
	}{
		{http.MethodPost, "application/x-www-form-urlencoded; charset=UTF-8"},
		{http.MethodPost, "Application/X-WWW-Form-Urlencoded"},
		{http.MethodPut, "application/x-www-form-urlencoded"},
	} {
		t.Run(tc.method+" "+tc.contentType, func(t *testing.T) {
			svc, h := newTestHandler(t, handler.Options{})
			svc.EXPECT().Submit(gomock.Any(), source, target).Return(&mention.Submission{
				Source: source, Target: target,
				Mention: &domain.Mention{Status: domain.MentionStatusVerified},
			}, nil)

			res, _ := do(h, formRequest(tc.method, tc.contentType, url.Values{"source": {source}, "target": {target}}))
			require.Equal(t, http.StatusOK, res.StatusCode)
		})
	}
}

func TestSubmit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		errCode string
		message string
	}{
		{
			name:    "missing source",
			err:     serrors.With(serrors.ErrInvalidInput, mention.ReasonSourceMissing),
			code:    http.StatusBadRequest,
			errCode: "INVALID_INPUT",
			message: "Source not found",
		},
		{
			name:    "target not allowed",
			err:     serrors.With(serrors.ErrDomainNotAllowed, mention.ReasonTargetNotAllowed),
			code:    http.StatusBadRequest,
			errCode: "DOMAIN_NOT_ALLOWED",
			message: "Target not allowed by this server",
		},
		{
			name:    "queue unavailable",
			err:     serrors.With(serrors.ErrUnavailable, "asynchronous verification is not available"),
			code:    http.StatusServiceUnavailable,
			errCode: "UNAVAILABLE",
			message: "asynchronous verification is not available",
		},
		{
			name:    "storage failure hides cause",
			err:     serrors.Wrap(serrors.ErrInternal, errors.New("dial tcp 10.0.0.5:5432"), "could not record mention"),
			code:    http.StatusInternalServerError,
			errCode: "INTERNAL",
			message: "internal error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, h := newTestHandler(t, handler.Options{})
			svc.EXPECT().Submit(gomock.Any(), "", target).Return(nil, tc.err)

			res, body := do(h, formRequest(http.MethodPost, "application/x-www-form-urlencoded", url.Values{"target": {target}}))
			require.Equal(t, tc.code, res.StatusCode)
			require.Equal(t, "application/json", res.Header.Get("Content-Type"))
			require.JSONEq(t, `{"code":"`+tc.errCode+`","message":"`+tc.message+`"}`, body)
		})
	}
}

func TestSubmit_InvalidForm(t *testing.T) {
	_, h := newTestHandler(t, handler.Options{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("source=%zz&target=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, body := do(h, req)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.JSONEq(t, `{"code":"INVALID_INPUT","message":"Invalid form data"}`, body)
}

func TestSubmit_FormTooLarge(t *testing.T) {
	_, h := newTestHandler(t, handler.Options{MaxFormBytes: 32})

	res, body := do(h, formRequest(http.MethodPost, "application/x-www-form-urlencoded",
		url.Values{"source": {source + strings.Repeat("x", 64)}, "target": {target}}))
	require.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
	require.JSONEq(t, `{"code":"INVALID_INPUT","message":"Form data too large"}`, body)
}

func TestQuery(t *testing.T) {
	svc, h := newTestHandler(t, handler.Options{})
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.EXPECT().Mentions(gomock.Any(), target).Return([]domain.Mention{
		{Source: source, Target: target, Status: domain.MentionStatusRejected, CreatedAt: createdAt},
		{Source: source, Target: target, Status: domain.MentionStatusVerified, CreatedAt: createdAt.Add(time.Second)},
	}, nil)

	res, body := do(h, httptest.NewRequest(http.MethodGet, "/?url="+url.QueryEscape(target), nil))
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))
	require.JSONEq(t, `[
		{"source":"http://a.example/note","target":"http://b.example/post","status":"REJECTED","createdAt":"2024-05-01T12:00:00Z"},
		{"source":"http://a.example/note","target":"http://b.example/post","status":"VERIFIED","createdAt":"2024-05-01T12:00:01Z"}
	]`, body)
}

func TestQuery_Empty(t *testing.T) {
	svc, h := newTestHandler(t, handler.Options{})
	svc.EXPECT().Mentions(gomock.Any(), target).Return([]domain.Mention{}, nil)

	res, body := do(h, httptest.NewRequest(http.MethodGet, "/?url="+url.QueryEscape(target), nil))
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "[]", body)
}

func TestQuery_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"invalid", serrors.With(serrors.ErrInvalidInput, mention.ReasonQueryInvalidURL), "Bad request: invalid URL"},
		{"not allowed", serrors.With(serrors.ErrDomainNotAllowed, mention.ReasonQueryNotAllowed), "Bad request: URL not in allowed list"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, h := newTestHandler(t, handler.Options{})
			svc.EXPECT().Mentions(gomock.Any(), "whatever").Return(nil, tc.err)

			res, body := do(h, httptest.NewRequest(http.MethodGet, "/?url=whatever", nil))
			require.Equal(t, http.StatusBadRequest, res.StatusCode)
			require.Contains(t, body, tc.message)
		})
	}
}

func TestQuery_MissingURL(t *testing.T) {
	svc, h := newTestHandler(t, handler.Options{})
	svc.EXPECT().Mentions(gomock.Any(), "").Return(nil, serrors.With(serrors.ErrInvalidInput, mention.ReasonQueryInvalidURL))

	res, body := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))
	require.JSONEq(t, `{"code":"INVALID_INPUT","message":"Bad request: invalid URL"}`, body)
}

func TestBadRequest(t *testing.T) {
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPut, "/", nil),
		httptest.NewRequest(http.MethodPost, "/?url="+target, nil),
		func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"source":"x"}`))
			r.Header.Set("Content-Type", "application/json")

			return r
		}(),
	} {
		t.Run(req.Method+" "+req.URL.String(), func(t *testing.T) {
			_, h := newTestHandler(t, handler.Options{})

			res, body := do(h, req)
			require.Equal(t, http.StatusBadRequest, res.StatusCode)
			require.Equal(t, "Bad request", body)
		})
	}
}

func TestNewError(t *testing.T) {
	h := handler.New(handler.Deps{}, handler.Options{})
	ctx := context.Background()

	status, res := h.NewError(ctx, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, serrors.ErrInternal.Error(), res.Code)
	require.Equal(t, "internal error", res.Message)

	status, res = h.NewError(ctx, serrors.ErrInvalidInput)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "INVALID_INPUT", res.Code)
	require.Equal(t, "INVALID_INPUT", res.Message)

	status, res = h.NewError(ctx, serrors.Wrap(serrors.ErrFetchFailure, errors.New("refused"), "could not fetch source"))
	require.Equal(t, http.StatusBadGateway, status)
	require.Equal(t, "could not fetch source", res.Message)
}
