package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"webmention/internal/api"
	"webmention/internal/api/handler"
	"webmention/internal/mention"
	"webmention/internal/verifier"
	"webmention/internal/weburl"
	"webmention/pkg/domain"
	"webmention/pkg/storage/memory"
)

const linkedTarget = "http://b.example/post"

// receiver runs the whole stack: server, handler, service, HTTP verifier and
// the memory backend. Only b.example is allowed.
type receiver struct {
	url     string
	storage *memory.Memory
}

func newReceiver(t *testing.T) *receiver {
	t.Helper()

	st := memory.New("test:")
	service := mention.New(st, nil, verifier.New(verifier.NewHTTPFetcher(verifier.FetcherOptions{})), mention.Options{
		AllowList: weburl.NewAllowList("b.example"),
	})

	reg := prometheus.NewRegistry()
	srv, err := api.NewServer(api.Deps{Deps: handler.Deps{Mentions: service}, Health: st}, api.Options{
		MetricsPath: "/metrics",
		Registerer:  reg,
		Gatherer:    reg,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return &receiver{url: ts.URL, storage: st}
}

func (r *receiver) submit(t *testing.T, source, target string) (int, string) {
	t.Helper()

	form := url.Values{"source": {source}, "target": {target}}
	res, err := http.Post(r.url+"/", "application/x-www-form-urlencoded", strings.NewReader(form.Encode())) //nolint: noctx
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, string(body)
}

func (r *receiver) mentions(t *testing.T, target string) []domain.Mention {
	t.Helper()

	res, body := get(t, r.url+"/?url="+url.QueryEscape(target))
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var out []domain.Mention
	require.NoError(t, json.Unmarshal([]byte(body), &out))

	return out
}

func sourcePage(t *testing.T, html string) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, html)
	}))
	t.Cleanup(srv.Close)

	return srv.URL + "/page"
}

func TestWebmention_VerifiedThenListed(t *testing.T) {
	r := newReceiver(t)
	source := sourcePage(t, `<p>Replying to <a href="`+linkedTarget+`">a post</a></p>`)

	status, body := r.submit(t, source, linkedTarget)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Good link: "+source+" -> "+linkedTarget, body)

	got := r.mentions(t, linkedTarget)
	require.Len(t, got, 1)
	require.Equal(t, source, got[0].Source)
	require.Equal(t, linkedTarget, got[0].Target)
	require.Equal(t, domain.MentionStatusVerified, got[0].Status)
}

func TestWebmention_RejectedWithoutLink(t *testing.T) {
	r := newReceiver(t)
	source := sourcePage(t, `<a href="http://b.example/other">elsewhere</a>`)

	status, body := r.submit(t, source, linkedTarget)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Bad link: "+source+" -> "+linkedTarget, body)

	got := r.mentions(t, linkedTarget)
	require.Len(t, got, 1)
	require.Equal(t, domain.MentionStatusRejected, got[0].Status)
}

func TestWebmention_TargetNotAllowed(t *testing.T) {
	r := newReceiver(t)
	source := sourcePage(t, `<a href="http://c.example/post">c</a>`)

	status, body := r.submit(t, source, "http://c.example/post")
	require.Equal(t, http.StatusBadRequest, status)
	require.JSONEq(t, `{"code":"DOMAIN_NOT_ALLOWED","message":"Target not allowed by this server"}`, body)

	res, _ := get(t, r.url+"/?url="+url.QueryEscape("http://c.example/post"))
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	stored, err := r.storage.MentionsByTarget(context.Background(), "http://c.example/post")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestWebmention_UnreachableSourceIsRecorded(t *testing.T) {
	r := newReceiver(t)

	gone := httptest.NewServer(http.NotFoundHandler())
	source := gone.URL + "/page"
	gone.Close()

	status, body := r.submit(t, source, linkedTarget)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Internal server error: "+source+" -> "+linkedTarget, body)

	got := r.mentions(t, linkedTarget)
	require.Len(t, got, 1)
	require.Equal(t, source, got[0].Source)
	require.Equal(t, domain.MentionStatusFetchError, got[0].Status)
}

func TestWebmention_ResubmissionAppends(t *testing.T) {
	r := newReceiver(t)
	source := sourcePage(t, `<a href="/elsewhere">x</a><a href="`+linkedTarget+`#reply">y</a>`)

	for range 2 {
		status, _ := r.submit(t, source, linkedTarget+"#comments")
		require.Equal(t, http.StatusOK, status)
	}

	got := r.mentions(t, "http://B.example/post")
	require.Len(t, got, 2)
	for _, m := range got {
		require.Equal(t, source, m.Source)
		require.Equal(t, domain.MentionStatusVerified, m.Status)
	}
}
