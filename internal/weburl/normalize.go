// Package weburl validates and normalizes the URLs taking part in a
// webmention and matches hosts against the configured allowlist.
package weburl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for strings that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid URL")

// Normalize parses raw as an absolute http or https URL and returns it without
// its fragment.
//
// The only other rewrites are the ones a WHATWG URL parser applies: scheme and
// host are lower-cased and an empty path becomes "/". Query strings, trailing
// slashes and path case are kept as they are, so callers comparing URLs must
// normalize both sides with this function.
func Normalize(raw string) (*url.URL, error) {
	u, err := url.Parse(clean(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	return normalizeParsed(u)
}

// NormalizeString is Normalize returning the string form.
func NormalizeString(raw string) (string, error) {
	u, err := Normalize(raw)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

// Resolve resolves ref against base and normalizes the result. References that
// do not end up as http(s) URLs (mailto:, javascript:, ...) are rejected.
func Resolve(base *url.URL, ref string) (*url.URL, error) {
	r, err := url.Parse(clean(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	return normalizeParsed(base.ResolveReference(r))
}

// clean drops surrounding whitespace and every tab and newline, which browsers
// ignore anywhere in a URL.
func clean(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}

		return r
	}, strings.TrimSpace(raw))
}

func normalizeParsed(u *url.URL) (*url.URL, error) {
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q is not http or https", ErrInvalidURL, u.Scheme)
	}
	if u.Opaque != "" || u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	u.RawFragment = ""

	return u, nil
}
