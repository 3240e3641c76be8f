package weburl_test

import (
	"net/url"
	"testing"

	"webmention/internal/weburl"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		ok   bool
	}{
		{
			name: "keeps an already normalized url",
			in:   "http://b.example/post",
			out:  "http://b.example/post",
			ok:   true,
		},
		{
			name: "removes fragment",
			in:   "https://b.example/post?x=1#comments",
			out:  "https://b.example/post?x=1",
			ok:   true,
		},
		{
			name: "removes empty fragment",
			in:   "https://b.example/post#",
			out:  "https://b.example/post",
			ok:   true,
		},
		{
			name: "lowercases scheme and host and adds root path",
			in:   "HTTPS://B.Example",
			out:  "https://b.example/",
			ok:   true,
		},
		{
			name: "keeps trailing slash, query order and path case",
			in:   "http://b.example/Post/?b=2&a=1",
			out:  "http://b.example/Post/?b=2&a=1",
			ok:   true,
		},
		{
			name: "keeps port",
			in:   "http://b.example:8080/post",
			out:  "http://b.example:8080/post",
			ok:   true,
		},
		{
			name: "drops tabs and newlines inside",
			in:   "http://b.exa\tmple/po\r\nst",
			out:  "http://b.example/post",
			ok:   true,
		},
		{
			name: "trims surrounding whitespace",
			in:   "  http://b.example/post \n",
			out:  "http://b.example/post",
			ok:   true,
		},
		{name: "rejects ftp", in: "ftp://b.example/file", ok: false},
		{name: "rejects mailto", in: "mailto:someone@b.example", ok: false},
		{name: "rejects javascript", in: "javascript:alert(1)", ok: false},
		{name: "rejects relative path", in: "/post/1", ok: false},
		{name: "rejects scheme-relative", in: "//b.example/post", ok: false},
		{name: "rejects missing host", in: "http:///post", ok: false},
		{name: "rejects empty", in: "", ok: false},
		{name: "rejects unparseable host", in: "http://exa mple.com", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := weburl.NormalizeString(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, weburl.ErrInvalidURL)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.out, got)
		})
	}
}

func TestNormalize_NoSchemeAlwaysRejected(t *testing.T) {
	for _, in := range []string{"b.example", "b.example/post", "www.b.example", "localhost:8080", "data:text/plain,hi"} {
		_, err := weburl.Normalize(in)
		require.Error(t, err, in)
	}
}

func TestResolve(t *testing.T) {
	base, err := url.Parse("http://a.example/blog/page?x=1")
	require.NoError(t, err)

	cases := []struct {
		ref string
		out string
		ok  bool
	}{
		{ref: "/post/1", out: "http://a.example/post/1", ok: true},
		{ref: "post/2", out: "http://a.example/blog/post/2", ok: true},
		{ref: "../other", out: "http://a.example/other", ok: true},
		{ref: "//b.example/post", out: "http://b.example/post", ok: true},
		{ref: "#comments", out: "http://a.example/blog/page?x=1", ok: true},
		{ref: "?y=2", out: "http://a.example/blog/page?y=2", ok: true},
		{ref: "https://c.example/x#frag", out: "https://c.example/x", ok: true},
		{ref: "mailto:a@b.example", ok: false},
		{ref: "javascript:void(0)", ok: false},
	}

	for _, tc := range cases {
		got, err := weburl.Resolve(base, tc.ref)
		if !tc.ok {
			require.Error(t, err, tc.ref)

			continue
		}
		require.NoError(t, err, tc.ref)
		require.Equal(t, tc.out, got.String(), tc.ref)
	}

	require.Equal(t, "http://a.example/blog/page?x=1", base.String(), "base must not be modified")
}
